package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"coursetracker/internal/security"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	Environment        string
	LogLevel           string
	DatabaseType       string
	DatabasePath       string
	DatabaseURL        string
	SessionTTL         time.Duration
	PasswordIterations int
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	TrustProxyHeaders  bool
}

// Load reads configuration from an optional .env file and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is not an error.
func LoadFrom(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", dotEnvPath, err)
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_TYPE", "sqlite")
	v.SetDefault("DB_PATH", "./coursetracker.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_TTL", 7200)
	v.SetDefault("PASSWORD_ITERATIONS", 200000)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.AutomaticEnv()

	cfg := &Config{
		ServerPort:         v.GetString("PORT"),
		Environment:        strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseType:       strings.ToLower(v.GetString("DATABASE_TYPE")),
		DatabasePath:       v.GetString("DB_PATH"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		SessionTTL:         time.Duration(v.GetInt64("SESSION_TTL")) * time.Second,
		PasswordIterations: v.GetInt("PASSWORD_ITERATIONS"),
		LoginRateLimit:     v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow:    v.GetDuration("LOGIN_RATE_WINDOW"),
		TrustProxyHeaders:  v.GetBool("TRUST_PROXY_HEADERS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be a positive number of seconds")
	}
	if c.PasswordIterations < security.DefaultIterations {
		return fmt.Errorf("PASSWORD_ITERATIONS must be at least %d", security.DefaultIterations)
	}
	switch c.DatabaseType {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for database type %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
	if c.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}
