// Package config resolves carebase settings from defaults, an optional
// carebase.yaml, CAREBASE_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Keys shared by the config file, the environment and flag bindings.
const (
	KeyDatabase = "database"
	KeySeed     = "seed"
	KeyLogLevel = "log_level"
	KeyFormat   = "format"
)

// EnvPrefix prefixes every environment variable, e.g. CAREBASE_DATABASE.
const EnvPrefix = "CAREBASE"

const (
	DefaultDatabase = "database/hospice.db"
	DefaultLogLevel = "info"
	DefaultFormat   = "text"
)

type Config struct {
	Database string `mapstructure:"database"`
	Seed     bool   `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level"`
	Format   string `mapstructure:"format"`
}

// New returns a viper instance with defaults, environment binding and the
// config search path set. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDatabase, DefaultDatabase)
	v.SetDefault(KeySeed, true)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyFormat, DefaultFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("carebase")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "carebase"))
	}

	return v
}

// Load reads the config file and decodes the settings.
// An explicit file must exist; a missing carebase.yaml on the search path
// is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("%s must not be empty", KeyDatabase)
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("%s must be \"text\" or \"json\", got %q", KeyFormat, c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return level, nil
}
