// Package config builds the immutable application configuration from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Supported persistence drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Order pricing modes.
const (
	PricingClient  = "client"
	PricingCatalog = "catalog"
)

const defaultMongoDatabase = "test"

// Config is read once at startup and passed to the constructors that need it.
type Config struct {
	Port string

	DBDriver      string
	MongoURL      string
	MongoDatabase string
	DatabaseDSN   string
	DBTimeout     time.Duration

	StaticDir   string
	BodyLimitMB int

	StripeSecretKey string
	StripePublicKey string
	PaymentCurrency string
	OrderPricing    string

	RabbitMQURL      string
	RabbitMQExchange string

	LogLevel  string
	LogFormat string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URL", "")
	v.SetDefault("MONGODB_DATABASE", "")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DB_TIMEOUT", "10s")
	v.SetDefault("STATIC_DIR", "../Frontend/build")
	v.SetDefault("BODY_LIMIT_MB", 10)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_PUBLISHABLE_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "storefront.events")
	v.SetDefault("ORDER_PRICING", PricingClient)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		DBDriver:         strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		MongoURL:         v.GetString("MONGODB_URL"),
		MongoDatabase:    v.GetString("MONGODB_DATABASE"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		DBTimeout:        v.GetDuration("DB_TIMEOUT"),
		StaticDir:        v.GetString("STATIC_DIR"),
		BodyLimitMB:      v.GetInt("BODY_LIMIT_MB"),
		StripeSecretKey:  v.GetString("STRIPE_SECRET_KEY"),
		StripePublicKey:  v.GetString("STRIPE_PUBLISHABLE_KEY"),
		PaymentCurrency:  strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		OrderPricing:     strings.ToLower(strings.TrimSpace(v.GetString("ORDER_PRICING"))),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
	}

	if cfg.MongoDatabase == "" && cfg.DBDriver == DriverMongo {
		cfg.MongoDatabase = databaseFromURI(cfg.MongoURL)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for DB_DRIVER=%s", c.DBDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	switch c.OrderPricing {
	case PricingClient, PricingCatalog:
	default:
		errs = append(errs, fmt.Errorf("unsupported ORDER_PRICING %q", c.OrderPricing))
	}
	if c.BodyLimitMB <= 0 {
		errs = append(errs, errors.New("BODY_LIMIT_MB must be positive"))
	}
	if c.DBTimeout <= 0 {
		errs = append(errs, errors.New("DB_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// BodyLimit is the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return defaultMongoDatabase
	}
	return cs.Database
}
