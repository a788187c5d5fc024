// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/soundboard/internal/board"
)

// Config is the soundboard construction configuration. The top-level
// playback fields are instance-wide defaults; each sound may override
// them individually.
type Config struct {
	// Path is the prefix prepended to every sound's source URL.
	Path string `toml:"path"`

	// Instance-wide playback defaults.
	Autoplay bool    `toml:"autoplay"`
	Loop     bool    `toml:"loop"`
	Muted    bool    `toml:"muted"`
	Preload  bool    `toml:"preload"`
	Volume   float64 `toml:"volume"`

	// Sounds to register at startup.
	Sounds []board.SoundSpec `toml:"sounds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Path:     "",
		Autoplay: false,
		Loop:     false,
		Muted:    false,
		Preload:  true,
		Volume:   1,
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "soundboard", "config.toml")
}

// LoadConfig loads configuration from the given path. A missing file is
// not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the instance-wide playback options.
func (c *Config) Defaults() board.Options {
	return board.Options{
		Autoplay: c.Autoplay,
		Loop:     c.Loop,
		Muted:    c.Muted,
		Preload:  c.Preload,
		Volume:   c.Volume,
	}
}
