// Package config loads storefront settings from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
)

const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	LogLevel  string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"STOREFRONT_LOG_FORMAT" envDefault:"text"`

	StorageDriver string `env:"STOREFRONT_STORAGE" envDefault:"bolt"`
	StoragePath   string `env:"STOREFRONT_STORAGE_PATH" envDefault:"storefront.db"`
	PostgresURL   string `env:"STOREFRONT_POSTGRES_URL"`
	// Profile scopes stored keys the way a browser origin scopes local storage.
	Profile string `env:"STOREFRONT_PROFILE" envDefault:"default"`

	APIBaseURL     string        `env:"STOREFRONT_API_URL" envDefault:"https://dummyjson.com"`
	RequestTimeout time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"10s"`

	Currency      string        `env:"STOREFRONT_CURRENCY" envDefault:"USD"`
	CheckoutDelay time.Duration `env:"STOREFRONT_CHECKOUT_DELAY" envDefault:"3s"`
	// RequireLogin gates checkout on an active session.
	RequireLogin bool `env:"STOREFRONT_CHECKOUT_REQUIRE_LOGIN" envDefault:"true"`

	LocalLoginShortcut bool   `env:"STOREFRONT_LOCAL_LOGIN_SHORTCUT" envDefault:"true"`
	AvatarURL          string `env:"STOREFRONT_AVATAR_URL" envDefault:"https://upload.wikimedia.org/wikipedia/commons/9/99/Sample_User_Icon.png"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageBolt, StorageSQLite:
		if c.StoragePath == "" {
			return fmt.Errorf("storage path is required for %s storage", c.StorageDriver)
		}
	case StoragePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("postgres url is required for postgres storage")
		}
	default:
		return fmt.Errorf("storage driver[%s] is not supported", c.StorageDriver)
	}

	if c.Profile == "" {
		return fmt.Errorf("profile is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.CheckoutDelay < 0 {
		return fmt.Errorf("checkout delay is negative")
	}
	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}

	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
