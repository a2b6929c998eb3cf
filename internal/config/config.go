package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"idlewatch/pkg/sensor"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Fullscreen exception lists
	Exceptions sensor.Exceptions

	// Idle timers, ascending by threshold
	Timers []TimerConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// SchedulerConfig holds the idle polling behavior
type SchedulerConfig struct {
	PollInterval    time.Duration // How often to sample idle time
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	SkipWhenLocked  bool          // Hold timers while the session is locked
}

// TimerConfig describes one idle timer: once the user has been idle for
// After, Command runs; Canceller runs when activity resumes afterwards.
type TimerConfig struct {
	Name      string
	After     time.Duration
	Command   string
	Canceller string
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string
	Port int
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/idlewatch/idlewatch.db
		},
		Scheduler: SchedulerConfig{
			PollInterval:    5 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 300 * time.Second,
			SkipWhenLocked:  true,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/idlewatch-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scheduler.PollInterval < c.Scheduler.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Scheduler.PollInterval, c.Scheduler.MinPollInterval)
	}

	if c.Scheduler.PollInterval > c.Scheduler.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Scheduler.PollInterval, c.Scheduler.MaxPollInterval)
	}

	seen := make(map[string]bool, len(c.Timers))
	for i, timer := range c.Timers {
		if timer.Name == "" {
			return fmt.Errorf("timer %d has no name", i)
		}
		if seen[timer.Name] {
			return fmt.Errorf("duplicate timer name %q", timer.Name)
		}
		seen[timer.Name] = true
		if timer.After <= 0 {
			return fmt.Errorf("timer %q must have a positive idle threshold", timer.Name)
		}
		if timer.Command == "" {
			return fmt.Errorf("timer %q has no command", timer.Name)
		}
	}
	if !sort.SliceIsSorted(c.Timers, func(i, j int) bool {
		return c.Timers[i].After < c.Timers[j].After
	}) {
		return fmt.Errorf("timers must be ordered by ascending idle threshold")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	timers := make([]string, 0, len(c.Timers))
	for _, timer := range c.Timers {
		timers = append(timers, fmt.Sprintf("    %s: after %v run %q", timer.Name, timer.After, timer.Command))
	}
	if len(timers) == 0 {
		timers = append(timers, "    (none)")
	}

	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Scheduler:
    Poll Interval: %v
    Skip When Locked: %v
  Exceptions:
    Instances: %v
    Classes: %v
    Titles: %v
  Timers:
%s
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Scheduler.PollInterval,
		c.Scheduler.SkipWhenLocked,
		c.Exceptions.Instances,
		c.Exceptions.Classes,
		c.Exceptions.Titles,
		strings.Join(timers, "\n"),
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
