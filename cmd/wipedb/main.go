// Command wipedb deletes the traceroute database and recreates it empty.
// There is no confirmation prompt and no backup.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"traceroute-monitor/internal/config"
	"traceroute-monitor/internal/database"
	"traceroute-monitor/internal/logging"
)

func main() {
	cfg, err := config.Load("wipedb", os.Args[1:], config.Default(), nil)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Database.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	if _, err := database.Reset(cfg.Database.Path, logger); err != nil {
		logger.Fatal("Failed to reset database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
}
