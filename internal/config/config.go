package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Tracker configuration
	Tracker TrackerConfig

	// Goal engine configuration
	Engine EngineConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// TrackerConfig holds snapshot tracking behavior configuration
type TrackerConfig struct {
	PollInterval    time.Duration // How often to sample the focused window
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
}

// EngineConfig holds goal-checking behavior configuration
type EngineConfig struct {
	MinimumSwitchGap time.Duration // Largest gap absorbed into one activity stretch
	CheckInterval    time.Duration // How often the daemon re-checks goal rules
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/goaltrack/goaltrack.db
		},
		Tracker: TrackerConfig{
			PollInterval:    10 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 300 * time.Second,
		},
		Engine: EngineConfig{
			MinimumSwitchGap: 5 * time.Second,
			CheckInterval:    5 * time.Minute,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/goaltrack-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Engine.MinimumSwitchGap < 0 {
		return fmt.Errorf("minimum switch gap cannot be negative")
	}

	if c.Engine.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive")
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

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Tracker:
    Poll Interval: %v
  Engine:
    Minimum Switch Gap: %v
    Check Interval: %v
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Tracker.PollInterval,
		c.Engine.MinimumSwitchGap,
		c.Engine.CheckInterval,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
