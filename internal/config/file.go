package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Monitor struct {
		Target          string   `toml:"target"`
		Interfaces      []string `toml:"interfaces"`
		ConnectionNames []string `toml:"connection_names"`
		Interval        string   `toml:"interval"`
		Timeout         string   `toml:"timeout"`
		Sudo            bool     `toml:"sudo"`
		Verbose         bool     `toml:"verbose"`
		Page            string   `toml:"page"`
	} `toml:"monitor"`
	Publish struct {
		Dir     string `toml:"dir"`
		File    string `toml:"file"`
		Message string `toml:"message"`
		Remote  string `toml:"remote"`
		Branch  string `toml:"branch"`
	} `toml:"publish"`
	Web struct {
		Port int `toml:"port"`
	} `toml:"web"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
}

// LoadFile overlays the keys present in a TOML file onto cfg. Keys missing
// from the file leave cfg untouched.
func LoadFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	str := func(dst *string, v string, key ...string) {
		if meta.IsDefined(key...) {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(dst *time.Duration, v string, key ...string) error {
		if !meta.IsDefined(key...) {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", strings.Join(key, "."), err)
		}
		*dst = d
		return nil
	}

	str(&cfg.Database.Path, raw.Database.Path, "database", "path")

	str(&cfg.Monitor.Target, raw.Monitor.Target, "monitor", "target")
	if meta.IsDefined("monitor", "interfaces") {
		cfg.Monitor.Interfaces = normalizeList(raw.Monitor.Interfaces)
	}
	if meta.IsDefined("monitor", "connection_names") {
		cfg.Monitor.ConnectionNames = normalizeList(raw.Monitor.ConnectionNames)
	}
	if err := dur(&cfg.Monitor.Interval, raw.Monitor.Interval, "monitor", "interval"); err != nil {
		return err
	}
	if err := dur(&cfg.Monitor.Timeout, raw.Monitor.Timeout, "monitor", "timeout"); err != nil {
		return err
	}
	if meta.IsDefined("monitor", "sudo") {
		cfg.Monitor.UseSudo = raw.Monitor.Sudo
	}
	if meta.IsDefined("monitor", "verbose") {
		cfg.Monitor.Verbose = raw.Monitor.Verbose
	}
	str(&cfg.Monitor.PagePath, raw.Monitor.Page, "monitor", "page")

	str(&cfg.Publish.WorkDir, raw.Publish.Dir, "publish", "dir")
	str(&cfg.Publish.File, raw.Publish.File, "publish", "file")
	str(&cfg.Publish.Message, raw.Publish.Message, "publish", "message")
	str(&cfg.Publish.Remote, raw.Publish.Remote, "publish", "remote")
	str(&cfg.Publish.Branch, raw.Publish.Branch, "publish", "branch")

	if meta.IsDefined("web", "port") {
		cfg.Web.Port = raw.Web.Port
	}

	str(&cfg.Log.Level, raw.Log.Level, "log", "level")
	str(&cfg.Log.File, raw.Log.File, "log", "file")

	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
