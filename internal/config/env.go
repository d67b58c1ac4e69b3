package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("GOALTRACK_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Tracker configuration
	if pollInterval := os.Getenv("GOALTRACK_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	// Engine configuration
	if switchGap := os.Getenv("GOALTRACK_MIN_SWITCH_GAP"); switchGap != "" {
		if seconds, err := strconv.Atoi(switchGap); err == nil && seconds >= 0 {
			cfg.Engine.MinimumSwitchGap = time.Duration(seconds) * time.Second
		}
	}

	if checkInterval := os.Getenv("GOALTRACK_CHECK_INTERVAL"); checkInterval != "" {
		if seconds, err := strconv.Atoi(checkInterval); err == nil && seconds > 0 {
			cfg.Engine.CheckInterval = time.Duration(seconds) * time.Second
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("GOALTRACK_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Web configuration
	if webHost := os.Getenv("GOALTRACK_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("GOALTRACK_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config with default values and loads from environment.
// A .env file in the working directory is folded into the environment first;
// a missing file is fine.
func New() *Config {
	_ = godotenv.Load()
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
