package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

const (
	msgDeleted = "Database file existed and was deleted"
	msgAbsent  = "Database file does not exist"
)

// sidecars are the files SQLite keeps next to the main database file
var sidecars = []string{"-wal", "-shm", "-journal"}

// Reset deletes the database file at path if it exists and creates a new one
// holding an empty traceroute_results table. It reports whether a previous
// file was found. The old contents are not backed up.
func Reset(path string, logger *zap.Logger) (bool, error) {
	existed, err := remove(path)
	if err != nil {
		return existed, err
	}
	if existed {
		logger.Info(msgDeleted, zap.String("path", path))
	} else {
		logger.Info(msgAbsent, zap.String("path", path))
	}

	db, err := Open(path)
	if err != nil {
		return existed, fmt.Errorf("create database %s: %w", path, err)
	}
	if err := db.Close(); err != nil {
		return existed, fmt.Errorf("close database %s: %w", path, err)
	}

	logger.Info("Database created", zap.String("path", path), zap.String("table", "traceroute_results"))
	return existed, nil
}

// remove deletes the database file and any sidecar files left behind by
// the engine. Only the main file counts towards the returned existence flag.
func remove(path string) (bool, error) {
	existed := true
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		existed = false
	} else if err != nil {
		return false, fmt.Errorf("stat database file: %w", err)
	}

	if existed {
		if err := os.Remove(path); err != nil {
			return true, fmt.Errorf("delete database file: %w", err)
		}
	}

	for _, suffix := range sidecars {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return existed, fmt.Errorf("delete %s file: %w", suffix, err)
		}
	}

	return existed, nil
}
