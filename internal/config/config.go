package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store modes.
const (
	StoreModeHTTP     = "http"
	StoreModePostgres = "postgres"
)

// Event source modes.
const (
	EventsModeNone      = "none"
	EventsModeWebSocket = "websocket"
	EventsModePostgres  = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Database DatabaseConfig
	Events   EventsConfig
	S3       S3Config
}

// ServerConfig holds the console host configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds the console API key and the owner's session credential.
type AuthConfig struct {
	APIKey       string
	SessionToken string
	OwnerID      string // overrides the owner id read from the token
}

// StoreConfig selects and configures the remote entity store.
type StoreConfig struct {
	Mode    string
	BaseURL string
	Timeout int // seconds
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	AutoMigrate     bool
}

// EventsConfig selects the order event source.
type EventsConfig struct {
	Mode    string
	URL     string // websocket endpoint
	Channel string // postgres LISTEN channel
}

// S3Config holds AWS S3 configuration for menu item images.
type S3Config struct {
	Enabled    bool
	Bucket     string
	Region     string
	PresignTTL int // seconds
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey:       getEnv("API_KEY", ""),
			SessionToken: getEnv("SESSION_TOKEN", ""),
			OwnerID:      getEnv("SESSION_OWNER_ID", ""),
		},
		Store: StoreConfig{
			Mode:    getEnv("STORE_MODE", StoreModeHTTP),
			BaseURL: getEnv("STORE_BASE_URL", "http://localhost:3000"),
			Timeout: getEnvAsInt("STORE_TIMEOUT_SECONDS", 10),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "restaurants"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Events: EventsConfig{
			Mode:    getEnv("EVENTS_MODE", EventsModeNone),
			URL:     getEnv("EVENTS_URL", ""),
			Channel: getEnv("EVENTS_CHANNEL", "order_created"),
		},
		S3: S3Config{
			Enabled:    getEnvAsBool("S3_ENABLED", false),
			Bucket:     getEnv("S3_BUCKET", ""),
			Region:     getEnv("S3_REGION", "us-east-1"),
			PresignTTL: getEnvAsInt("S3_PRESIGN_TTL_SECONDS", 900),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Auth.SessionToken == "" {
		return fmt.Errorf("session token is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Store.Mode {
	case StoreModeHTTP:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store base URL is required in http mode")
		}
		if c.Store.Timeout < 1 {
			return fmt.Errorf("store timeout must be at least 1 second")
		}
	case StoreModePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store mode: %s (must be http or postgres)", c.Store.Mode)
	}

	switch c.Events.Mode {
	case EventsModeNone:
	case EventsModeWebSocket:
		if c.Events.URL == "" {
			return fmt.Errorf("events URL is required in websocket mode")
		}
	case EventsModePostgres:
		if c.Store.Mode != StoreModePostgres {
			return fmt.Errorf("postgres events require the postgres store mode")
		}
		if c.Events.Channel == "" {
			return fmt.Errorf("events channel is required in postgres mode")
		}
	default:
		return fmt.Errorf("invalid events mode: %s (must be none, websocket, or postgres)", c.Events.Mode)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if c.S3.PresignTTL < 1 {
			return fmt.Errorf("S3 presign TTL must be at least 1 second")
		}
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeout returns the per-call timeout for the HTTP store.
func (c *StoreConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
