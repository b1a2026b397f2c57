// Package config loads the booking core's process configuration from the
// environment, failing fast when a production-required secret is missing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full set of environment inputs the booking core recognizes.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Security SecurityConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	JWTSecret     string
	AdminAPIToken string
	DevFallbackOK bool
}

type PaymentConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	// DevWebhookFallbackSecret is tried in non-production environments whenever
	// verification with StripeWebhookSecret fails (including when it is empty),
	// to ease local testing without a real Stripe CLI tunnel.
	DevWebhookFallbackSecret string
}

// IsProduction reports whether the process is running in production mode.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the environment and validates production
// requirements.
func Load() (*Config, error) {
	env := getEnv("NODE_ENV", "development")

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bookingcore"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Security: SecurityConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),
			DevFallbackOK: env != "production",
		},
		Payment: PaymentConfig{
			StripeSecretKey:          getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
			DevWebhookFallbackSecret: getEnv("DEV_WEBHOOK_FALLBACK_SECRET", "whsec_dev_fallback"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !c.IsProduction() {
		return nil
	}
	if c.Database.Password == "" {
		return fmt.Errorf("config: DB_PASSWORD is required in production")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if c.Security.AdminAPIToken == "" {
		return fmt.Errorf("config: ADMIN_API_TOKEN is required in production")
	}
	if c.Payment.StripeWebhookSecret == "" {
		return fmt.Errorf("config: STRIPE_WEBHOOK_SECRET is required in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
