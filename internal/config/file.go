package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the TOML layout of the config file. Intervals are
// plain seconds so the file stays editable without duration syntax.
type fileConfig struct {
	PollIntervalSec int   `toml:"poll_interval_sec"`
	SkipWhenLocked  *bool `toml:"skip_when_locked"`

	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`

	Exceptions struct {
		Instances []string `toml:"instances"`
		Classes   []string `toml:"classes"`
		Titles    []string `toml:"titles"`
	} `toml:"exceptions"`

	Timers []struct {
		Name      string `toml:"name"`
		AfterSec  int    `toml:"after_sec"`
		Command   string `toml:"command"`
		Canceller string `toml:"canceller"`
	} `toml:"timers"`

	Web struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"web"`
}

// ConfigFilePath returns the config file location: IDLEWATCH_CONFIG when
// set, otherwise ~/.config/idlewatch/config.toml.
func ConfigFilePath() string {
	if path := os.Getenv("IDLEWATCH_CONFIG"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "idlewatch", "config.toml")
}

// LoadFromFile overlays settings from a TOML file onto cfg. A missing file
// is reported via os.IsNotExist so callers can treat it as optional.
func LoadFromFile(cfg *Config, path string) error {
	if path == "" {
		return os.ErrNotExist
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.PollIntervalSec > 0 {
		cfg.Scheduler.PollInterval = time.Duration(fc.PollIntervalSec) * time.Second
	}
	if fc.SkipWhenLocked != nil {
		cfg.Scheduler.SkipWhenLocked = *fc.SkipWhenLocked
	}
	if fc.Database.Path != "" {
		cfg.Database.Path = fc.Database.Path
	}
	if fc.Exceptions.Instances != nil {
		cfg.Exceptions.Instances = fc.Exceptions.Instances
	}
	if fc.Exceptions.Classes != nil {
		cfg.Exceptions.Classes = fc.Exceptions.Classes
	}
	if fc.Exceptions.Titles != nil {
		cfg.Exceptions.Titles = fc.Exceptions.Titles
	}
	if fc.Web.Host != "" {
		cfg.Web.Host = fc.Web.Host
	}
	if fc.Web.Port != 0 {
		cfg.Web.Port = fc.Web.Port
	}

	for _, timer := range fc.Timers {
		cfg.Timers = append(cfg.Timers, TimerConfig{
			Name:      timer.Name,
			After:     time.Duration(timer.AfterSec) * time.Second,
			Command:   timer.Command,
			Canceller: timer.Canceller,
		})
	}

	return nil
}
