package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override file and default values.
func LoadFromEnv(cfg *Config) {
	if dbPath := os.Getenv("IDLEWATCH_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if pollInterval := os.Getenv("IDLEWATCH_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Scheduler.MinPollInterval && interval <= cfg.Scheduler.MaxPollInterval {
				cfg.Scheduler.PollInterval = interval
			}
		}
	}

	if skipLocked := os.Getenv("IDLEWATCH_SKIP_WHEN_LOCKED"); skipLocked != "" {
		if val, err := strconv.ParseBool(skipLocked); err == nil {
			cfg.Scheduler.SkipWhenLocked = val
		}
	}

	// Exception lists are comma-separated; an empty variable leaves the
	// list unset, it does not clear a file-supplied one.
	if instances := os.Getenv("IDLEWATCH_EXC_INSTANCE"); instances != "" {
		cfg.Exceptions.Instances = splitList(instances)
	}
	if classes := os.Getenv("IDLEWATCH_EXC_CLASS"); classes != "" {
		cfg.Exceptions.Classes = splitList(classes)
	}
	if titles := os.Getenv("IDLEWATCH_EXC_TITLE"); titles != "" {
		cfg.Exceptions.Titles = splitList(titles)
	}

	if pidFile := os.Getenv("IDLEWATCH_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if webHost := os.Getenv("IDLEWATCH_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("IDLEWATCH_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// New creates a Config from defaults, the optional config file and
// environment overrides, in that order.
func New() *Config {
	cfg := Default()
	if err := LoadFromFile(cfg, ConfigFilePath()); err != nil && !os.IsNotExist(err) {
		// A broken config file should not silently fall back to
		// defaults; surface it on stderr and keep going.
		os.Stderr.WriteString("idlewatch: config file ignored: " + err.Error() + "\n")
	}
	LoadFromEnv(cfg)
	return cfg
}
