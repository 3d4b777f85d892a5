package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Cache         CacheConfig
	OpenFoodFacts OpenFoodFactsConfig
	Gemini        GeminiConfig
	OCR           OCRConfig
	RateLimit     RateLimitConfig
	Scan          ScanConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// GeminiConfig holds the AI classifier configuration. An empty APIKey
// disables the classifier and routing falls back to the deterministic policy.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OCRConfig holds text recognition configuration
type OCRConfig struct {
	Languages []string `mapstructure:"languages"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second per client IP
}

// ScanConfig holds scan flow configuration
type ScanConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/freshtrack/")

	v.SetEnvPrefix("FRESHTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults carry a bare deployment
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults. The empty defaults register env-only keys with
	// viper so AutomaticEnv can fill them during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "dev-secret-change-in-production")
	v.SetDefault("auth.token_ttl", "24h")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "FreshTrack/1.0 (backend)")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	// OCR defaults
	v.SetDefault("ocr.languages", []string{"eng"})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 20)

	// Scan defaults
	v.SetDefault("scan.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set FRESHTRACK_DATABASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Server.Environment == "production" && config.Auth.JWTSecret == "dev-secret-change-in-production" {
		return fmt.Errorf("a real JWT secret is required in production (set FRESHTRACK_AUTH_JWT_SECRET)")
	}

	return nil
}
