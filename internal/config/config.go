package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the traceroute tools
type Config struct {
	Database DatabaseConfig
	Monitor  MonitorConfig
	Publish  PublishConfig
	Web      WebConfig
	Log      LogConfig
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string
}

// MonitorConfig controls the traceroute loop
type MonitorConfig struct {
	Target          string
	Interfaces      []string
	ConnectionNames []string
	Interval        time.Duration
	Timeout         time.Duration
	UseSudo         bool
	Verbose         bool
	PagePath        string
}

// PublishConfig describes what gets committed and where it is pushed
type PublishConfig struct {
	WorkDir string
	File    string
	Message string
	Remote  string
	Branch  string
}

// WebConfig controls the optional status server
type WebConfig struct {
	Port int // 0 disables the server
}

// LogConfig controls logger output
type LogConfig struct {
	Level string
	File  string
}

// Default returns the built-in configuration. The database and publish
// values are the fixed ones the tools have always used.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path: "traceroute.db",
		},
		Monitor: MonitorConfig{
			Interval: 1 * time.Second,
			Timeout:  30 * time.Second,
			UseSudo:  true,
			PagePath: "index.html",
		},
		Publish: PublishConfig{
			WorkDir: ".",
			File:    "index.html",
			Message: "Update index.html",
			Remote:  "origin",
			Branch:  "main",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the database configuration is valid
func (c *DatabaseConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	return nil
}

// Validate checks if the monitor configuration is valid
func (c *MonitorConfig) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target must be specified")
	}
	if len(c.Interfaces) == 0 {
		return fmt.Errorf("at least one interface must be specified")
	}
	if len(c.Interfaces) != len(c.ConnectionNames) {
		return fmt.Errorf("got %d interfaces but %d connection names", len(c.Interfaces), len(c.ConnectionNames))
	}
	for i, name := range c.ConnectionNames {
		if name == "" || c.Interfaces[i] == "" {
			return fmt.Errorf("interface and connection name %d cannot be empty", i+1)
		}
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.PagePath == "" {
		return fmt.Errorf("page path cannot be empty")
	}
	return nil
}

// Validate checks if the publish configuration is valid
func (c *PublishConfig) Validate() error {
	switch {
	case c.WorkDir == "":
		return fmt.Errorf("publish directory cannot be empty")
	case c.File == "":
		return fmt.Errorf("publish file cannot be empty")
	case c.Message == "":
		return fmt.Errorf("commit message cannot be empty")
	case c.Remote == "":
		return fmt.Errorf("remote cannot be empty")
	case c.Branch == "":
		return fmt.Errorf("branch cannot be empty")
	}
	return nil
}

// Validate checks if the web configuration is valid
func (c *WebConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	return nil
}
