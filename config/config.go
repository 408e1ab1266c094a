package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "change-me-in-production"

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverREST   = "rest"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects and configures the catalog data store
type StoreConfig struct {
	Driver     string     `mapstructure:"driver"` // "memory", "sqlite" or "rest"
	SQLitePath string     `mapstructure:"sqlite_path"`
	REST       RESTConfig `mapstructure:"rest"`
}

// RESTConfig holds the hosted database API configuration
type RESTConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	Table             string  `mapstructure:"table"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// AuthConfig holds session token and admin settings
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	AdminEmails []string      `mapstructure:"admin_emails"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// CatalogConfig holds search and listing settings
type CatalogConfig struct {
	AliasFile       string `mapstructure:"alias_file"`
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	AdminPageSize   int    `mapstructure:"admin_page_size"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches the default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/computronix/")
	}

	// Environment variable settings
	v.SetEnvPrefix("COMPUTRONIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional when searching - env vars and defaults still apply)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile reads .env into the process environment. Variables already set win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Store defaults
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.sqlite_path", "computronix.db")
	v.SetDefault("store.rest.base_url", "")
	v.SetDefault("store.rest.api_key", "")
	v.SetDefault("store.rest.table", "products")
	v.SetDefault("store.rest.requests_per_second", 10)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.issuer", "computronix")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_emails", []string{"admin@aggarwal.com"})

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Catalog defaults
	v.SetDefault("catalog.alias_file", "")
	v.SetDefault("catalog.default_page_size", 24)
	v.SetDefault("catalog.max_page_size", 100)
	v.SetDefault("catalog.admin_page_size", 50)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Store.Driver {
	case DriverMemory, DriverSQLite, DriverREST:
	default:
		return fmt.Errorf("store driver must be 'memory', 'sqlite' or 'rest', got: %s", config.Store.Driver)
	}

	if config.Store.Driver == DriverSQLite && config.Store.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required when store driver is 'sqlite'")
	}

	if config.Store.Driver == DriverREST {
		if config.Store.REST.BaseURL == "" {
			return fmt.Errorf("REST base URL is required when store driver is 'rest' (set COMPUTRONIX_STORE_REST_BASE_URL)")
		}
		if config.Store.REST.RequestsPerSecond <= 0 {
			return fmt.Errorf("REST requests per second must be positive, got: %v", config.Store.REST.RequestsPerSecond)
		}
	}

	if config.IsProduction() && (config.Auth.JWTSecret == "" || config.Auth.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("JWT secret must be set in production (set COMPUTRONIX_AUTH_JWT_SECRET)")
	}

	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got: %s", config.Auth.TokenTTL)
	}

	if config.Catalog.DefaultPageSize <= 0 || config.Catalog.MaxPageSize <= 0 || config.Catalog.AdminPageSize <= 0 {
		return fmt.Errorf("catalog page sizes must be positive")
	}

	if config.Catalog.DefaultPageSize > config.Catalog.MaxPageSize {
		return fmt.Errorf("default page size %d exceeds max page size %d",
			config.Catalog.DefaultPageSize, config.Catalog.MaxPageSize)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
