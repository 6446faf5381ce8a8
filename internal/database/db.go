package database

import (
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Schema is the single table the monitor writes to
const Schema = `
    CREATE TABLE IF NOT EXISTS traceroute_results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp INTEGER,
        connection_name TEXT,
        target_ip TEXT,
        packet_loss REAL
    );
    `

// pragmas are applied by the driver to every new connection in the pool
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
}

// DSN returns the driver data source name for the database at path
func DSN(path string) string {
	q := url.Values{"_pragma": pragmas}
	return path + "?" + q.Encode()
}

// DB wraps sqlx.DB with additional methods
type DB struct {
	*sqlx.DB
}

// New opens (and creates, if missing) the database at path
func New(path string) (*DB, error) {
	db, err := sqlx.Connect(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	return &DB{db}, nil
}

// InitSchema creates the traceroute_results table
func (db *DB) InitSchema() error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// Open opens the database at path and makes sure the schema exists
func Open(path string) (*DB, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
