package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the daemon's settings file.
type Config struct {
	// RC is the path to the Lua config file.
	RC string `toml:"rc"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFile receives log output. Empty means stderr.
	LogFile string `toml:"log_file"`

	// SignalBuffer is the capacity of the internal wake-up channel.
	// Zero picks the built-in default.
	SignalBuffer int `toml:"signal_buffer"`

	// BlockingEmit makes signal emission block instead of dropping
	// when the wake-up channel is full.
	BlockingEmit bool `toml:"blocking_emit"`

	// WatchRC restarts the dispatch cycle when the Lua config file
	// changes on disk.
	WatchRC bool `toml:"watch"`
}

// Default returns the configuration used when no settings file
// exists.
func Default() Config {
	return Config{
		RC:       DefaultRCPath(),
		LogLevel: "info",
		WatchRC:  true,
	}
}

// DefaultPath returns the settings file location under the user
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wmhooks", "config.toml")
}

// DefaultRCPath returns the Lua config location under the user config
// directory.
func DefaultRCPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wmhooks", "rc.lua")
}

// Load reads a settings file. A missing file is not an error: the
// defaults come back. Unset fields fall back to their defaults.
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
		return cfg, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		c.LogLevel = "info"
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, c.LogLevel)
	}
	if c.SignalBuffer < 0 {
		return fmt.Errorf("%w: signal_buffer %d", ErrInvalidValue, c.SignalBuffer)
	}
	if c.RC == "" {
		c.RC = DefaultRCPath()
	}
	return nil
}
