package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Storage struct {
		Driver   string
		Path     string
		FilePath string
	}
	Loans struct {
		Max int
	}
	Locale struct {
		DateFormat string
	}
	Log struct {
		Level string
	}
	Seed struct {
		Enabled bool
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// godotenv never overrides variables already set in the environment
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "data/library.db")
	v.SetDefault("storage.filepath", "data/library_data.json")
	v.SetDefault("loans.max", 3)
	v.SetDefault("locale.dateformat", "2/1/2006")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.enabled", true)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Loans.Max < 1 {
		return fmt.Errorf("loans.max must be at least 1, got %d", c.Loans.Max)
	}
	if strings.TrimSpace(c.Locale.DateFormat) == "" {
		return fmt.Errorf("locale.dateformat is required")
	}
	return nil
}
