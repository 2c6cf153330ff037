// Package config provides Viper-based configuration loading for a server using
// the ranged weapon runtime, and YAML loading of weapon definitions.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RuntimeConfig holds weapon runtime settings.
type RuntimeConfig struct {
	// TickRate is the interval between two scheduler ticks.
	TickRate time.Duration `mapstructure:"tick_rate"`
}

// StorageConfig holds weapon instance persistence settings.
type StorageConfig struct {
	// Enabled turns persistence of weapon instances on.
	Enabled bool `mapstructure:"enabled"`
	// Path is the LevelDB directory weapon instances are stored in.
	Path string `mapstructure:"path"`
}

// WeaponsConfig holds the location of the weapon definitions.
type WeaponsConfig struct {
	// Path is a YAML file, or a directory of YAML files, with weapon definitions.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text".
	Format string `mapstructure:"format"`
}

// Config is the top-level configuration.
type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Storage StorageConfig `mapstructure:"storage"`
	Weapons WeaponsConfig `mapstructure:"weapons"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
// Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Runtime.TickRate <= 0 {
		errs = append(errs, fmt.Sprintf("runtime.tick_rate must be > 0, got %s", c.Runtime.TickRate))
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		errs = append(errs, "storage.path must not be empty when storage is enabled")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	if _, err := parseLevel(l.Level); err != nil {
		errs = append(errs, err.Error())
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, text], got %q", l.Format))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", s)
	}
}

// Logger returns a logger writing to w with the configured level and format.
// An invalid level falls back to info.
func (l LoggingConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
// Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with RANGED_ prefix
	v.SetEnvPrefix("RANGED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runtime.tick_rate", "50ms")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.path", "data/weapons")

	v.SetDefault("weapons.path", "weapons.yaml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
