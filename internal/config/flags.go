package config

import (
	"flag"
	"io"
	"strings"
)

// Binder registers command specific flags bound to fields of cfg
type Binder func(fs *flag.FlagSet, cfg *Config)

// Load builds the configuration for a command. Values are layered as
// defaults, then the -config TOML file, then environment, then flags that
// were set explicitly on the command line.
func Load(name string, args []string, defaults Config, bind Binder) (Config, error) {
	// First pass only finds the config and env file locations.
	var configPath, envFile string
	scratch := defaults
	pre := newFlagSet(name, &scratch, bind, &configPath, &envFile)
	pre.SetOutput(io.Discard)
	if err := pre.Parse(args); err != nil {
		// Report the error with usage output from the real flag set.
		cfg := defaults
		return cfg, newFlagSet(name, &cfg, bind, new(string), new(string)).Parse(args)
	}

	cfg := defaults
	if configPath != "" {
		if err := LoadFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, envFile); err != nil {
		return cfg, err
	}

	// Second pass writes explicit flags over file and env values.
	if err := newFlagSet(name, &cfg, bind, new(string), new(string)).Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newFlagSet(name string, cfg *Config, bind Binder, configPath, envFile *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(configPath, "config", "", "TOML config file")
	fs.StringVar(envFile, "env-file", ".env", "Environment file loaded before reading "+EnvPrefix+"* variables")
	fs.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "Database path")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "Rotated JSON log file (empty disables)")
	if bind != nil {
		bind(fs, cfg)
	}
	return fs
}

// MonitorFlags binds the flags of the traceroute monitor
func MonitorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Monitor.Target, "target", cfg.Monitor.Target, "Target IP address for traceroute")
	fs.Var((*listValue)(&cfg.Monitor.Interfaces), "interfaces", "Comma-separated network interfaces (e.g. eth0,eth1)")
	fs.Var((*listValue)(&cfg.Monitor.ConnectionNames), "connection-names", "Comma-separated connection names, one per interface")
	fs.DurationVar(&cfg.Monitor.Interval, "interval", cfg.Monitor.Interval, "Traceroute interval")
	fs.DurationVar(&cfg.Monitor.Timeout, "timeout", cfg.Monitor.Timeout, "Timeout for a single mtr run")
	fs.BoolVar(&cfg.Monitor.UseSudo, "sudo", cfg.Monitor.UseSudo, "Run mtr through sudo")
	fs.BoolVar(&cfg.Monitor.Verbose, "verbose", cfg.Monitor.Verbose, "Log the full mtr output")
	fs.StringVar(&cfg.Monitor.PagePath, "page", cfg.Monitor.PagePath, "Status page output path")
	fs.IntVar(&cfg.Web.Port, "port", cfg.Web.Port, "Web server port (0 disables)")
}

// PublishFlags binds the flags of the publish command
func PublishFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Publish.WorkDir, "dir", cfg.Publish.WorkDir, "Git working directory")
	fs.StringVar(&cfg.Publish.File, "file", cfg.Publish.File, "File to commit")
	fs.StringVar(&cfg.Publish.Message, "message", cfg.Publish.Message, "Commit message")
	fs.StringVar(&cfg.Publish.Remote, "remote", cfg.Publish.Remote, "Remote to push to")
	fs.StringVar(&cfg.Publish.Branch, "branch", cfg.Publish.Branch, "Branch to push")
}

// listValue is a comma-separated flag.Value backed by a string slice
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	*l = splitList(s)
	return nil
}
