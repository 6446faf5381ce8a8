package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// EnvPrefix is prepended to every environment variable the tools read
const EnvPrefix = "TRACEMON_"

// ApplyEnv loads envFile (if it exists) into the process environment and
// overlays any TRACEMON_* variables onto cfg. Variables already set in the
// environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs []error
	str := func(dst *string, key string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	list := func(dst *[]string, key string) {
		if v, ok := lookup(key); ok {
			*dst = splitList(v)
		}
	}

	str(&cfg.Database.Path, "DB")

	str(&cfg.Monitor.Target, "TARGET")
	list(&cfg.Monitor.Interfaces, "INTERFACES")
	list(&cfg.Monitor.ConnectionNames, "CONNECTION_NAMES")
	if v, ok := lookup("INTERVAL"); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sINTERVAL: %w", EnvPrefix, err))
		} else {
			cfg.Monitor.Interval = d
		}
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			cfg.Monitor.Timeout = d
		}
	}
	if v, ok := lookup("SUDO"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSUDO: %w", EnvPrefix, err))
		} else {
			cfg.Monitor.UseSudo = b
		}
	}
	str(&cfg.Monitor.PagePath, "PAGE")

	str(&cfg.Publish.WorkDir, "PUBLISH_DIR")
	str(&cfg.Publish.File, "PUBLISH_FILE")
	str(&cfg.Publish.Message, "PUBLISH_MESSAGE")
	str(&cfg.Publish.Remote, "PUBLISH_REMOTE")
	str(&cfg.Publish.Branch, "PUBLISH_BRANCH")

	if v, ok := lookup("PORT"); ok {
		p, err := cast.ToIntE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPORT: %w", EnvPrefix, err))
		} else {
			cfg.Web.Port = p
		}
	}

	str(&cfg.Log.Level, "LOG_LEVEL")
	str(&cfg.Log.File, "LOG_FILE")

	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return normalizeList(strings.Split(s, ","))
}
