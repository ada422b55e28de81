package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "AISLEMATE"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	LLM        LLMConfig
	Catalog    CatalogConfig
	Matching   MatchingConfig
	Extraction ExtractionConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds settings for the OpenAI-compatible chat completion API
type LLMConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	Model              string        `mapstructure:"model"`
	Temperature        float32       `mapstructure:"temperature"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxRetries         int           `mapstructure:"max_retries"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

// CatalogConfig locates the product inventory
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig holds inventory matcher settings
type MatchingConfig struct {
	MaxResultsPerItem  int  `mapstructure:"max_results_per_item"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ExtractionConfig holds the ingredient list used when extraction fails.
// Entries are "ingredient:quantity".
type ExtractionConfig struct {
	Fallback []string `mapstructure:"fallback"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory", "redis" or "badger"
	RedisURL   string        `mapstructure:"redis_url"`
	BadgerPath string        `mapstructure:"badger_path"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from the .env file, environment variables and config files
func Load() (*Config, error) {
	return LoadWithViper(viper.New(), "")
}

// LoadWithViper loads configuration into v, which may already carry bound flags.
// A non-empty configFile replaces the config file search.
func LoadWithViper(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/aislemate/")
	}

	// Environment variable settings
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
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

// loadEnvFile loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "chrome-extension://*"})

	// LLM defaults
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.rate_limit_per_minute", 60)

	v.SetDefault("catalog.path", "data/inventory.csv")

	v.SetDefault("matching.max_results_per_item", 2)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("extraction.fallback", []string{"rice:500g", "soy sauce:100ml", "chicken:1kg"})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.badger_path", "data/cache")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "memory", "redis", "badger":
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'badger', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.Type == "badger" && config.Cache.BadgerPath == "" {
		return fmt.Errorf("badger path is required when cache type is 'badger'")
	}

	if config.Matching.MaxResultsPerItem <= 0 {
		return fmt.Errorf("matching.max_results_per_item must be positive, got: %d", config.Matching.MaxResultsPerItem)
	}

	if len(config.Extraction.Fallback) == 0 {
		return fmt.Errorf("extraction.fallback must list at least one ingredient")
	}
	for _, spec := range config.Extraction.Fallback {
		name, _, _ := strings.Cut(spec, ":")
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("extraction.fallback entry %q has no ingredient", spec)
		}
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// MaskSecret returns the first 8 characters of a secret for logging
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:8] + "..."
}
