// Package config loads demo application configuration from TOML files and
// watches them for live reload.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the demo application settings.
type Config struct {
	// TickMillis is the compositor tick interval in milliseconds.
	// Zero disables periodic ticks.
	TickMillis int `toml:"tick_millis"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// LogFile is where compositor logs are written. Empty disables logging;
	// the application owns the terminal, so stderr is not an option.
	LogFile string `toml:"log_file"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		TickMillis: 1000,
		LogLevel:   "info",
	}
}

// TickInterval returns the tick setting as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// Load reads configuration from path. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
