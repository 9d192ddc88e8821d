package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"wom"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"wom"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	// Redis is optional. An empty address disables webhook event de-duplication.
	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR" default:""`
		Password string        `envconfig:"REDIS_PASSWORD" default:""`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		EventTTL time.Duration `envconfig:"EVENT_TTL" default:"24h"`
	}

	Settlement struct {
		// PaymentTerms is added to a line item's creation time to compute its due date.
		PaymentTerms time.Duration `envconfig:"PAYMENT_TERMS" default:"720h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Settlement.PaymentTerms <= 0 {
		return nil, fmt.Errorf("PAYMENT_TERMS must be positive, got %s", cfg.Settlement.PaymentTerms)
	}

	return &cfg, nil
}
