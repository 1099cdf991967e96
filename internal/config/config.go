// SPDX-License-Identifier: MPL-2.0

// Package config loads the dent configuration file and exposes it as one
// immutable value. Components receive configuration by parameter; there is
// no ambient global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "dent"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// EngineDocker selects the Docker CLI.
	EngineDocker = "docker"
	// EnginePodman selects the Podman CLI.
	EnginePodman = "podman"
)

// ErrInvalidEngine is returned when the configured engine is not recognized.
var ErrInvalidEngine = errors.New("invalid container engine")

// Config is the dent configuration. Flags override these values; the merged
// result is constructed once and passed by parameter to every component that
// needs it.
type Config struct {
	// Engine is the preferred container engine (docker or podman).
	Engine string `mapstructure:"engine"`
	// BaseImage is the default base image when none is given on the
	// command line.
	BaseImage string `mapstructure:"base_image"`
	// Tag is the default image tag. Empty means the invoking user's
	// login name.
	Tag string `mapstructure:"tag"`
	// ElevateCommand is the privilege-escalation prefix used when the
	// engine cannot be invoked directly.
	ElevateCommand []string `mapstructure:"elevate_command"`
	// Shell is the command executed in the container when none is given
	// on the command line.
	Shell []string `mapstructure:"shell"`
	// Quiet suppresses build output.
	Quiet bool `mapstructure:"quiet"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:         EngineDocker,
		ElevateCommand: []string{"sudo"},
		Shell:          []string{"/bin/bash", "-l"},
	}
}

// Validate returns an error if the configuration is not usable.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineDocker, EnginePodman:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: docker, podman)", ErrInvalidEngine, c.Engine)
	}
}

// Dir returns the dent configuration directory using platform conventions:
// Windows uses %APPDATA%, macOS uses ~/Library/Application Support, and
// Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration. A non-empty path selects an explicit config
// file (which must exist); otherwise the platform config directory is
// searched and a missing file falls back to defaults. Environment variables
// prefixed DENT_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("base_image", defaults.BaseImage)
	v.SetDefault("tag", defaults.Tag)
	v.SetDefault("elevate_command", defaults.ElevateCommand)
	v.SetDefault("shell", defaults.Shell)
	v.SetDefault("quiet", defaults.Quiet)

	v.SetEnvPrefix("DENT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
