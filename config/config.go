package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds storefront catalog configuration.
type Config struct {
	APIBaseURL       string
	Timeout          time.Duration
	UserAgent        string
	ListenAddr       string
	MetricsAddr      string
	CacheFile        string
	CategoryCacheKey string
	IDCacheSize      int
	DefaultPageSize  int
	MaxPageSize      int
	Verbose          bool
}

// DefaultConfig returns conservative defaults for the public demo API.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:       "https://fakestoreapi.com",
		Timeout:          10 * time.Second,
		UserAgent:        "tokotok/1.0 (+https://github.com/abdulhalimzhr/tokotok)",
		ListenAddr:       ":8080",
		MetricsAddr:      "",
		CacheFile:        "data/storefront.json",
		CategoryCacheKey: "categories",
		IDCacheSize:      256,
		DefaultPageSize:  20,
		MaxPageSize:      100,
		Verbose:          false,
	}
}

// Load applies a .env file (if present) and returns defaults. A missing
// .env is not an error; explicit env vars still win via the Env helpers.
func Load() *Config {
	_ = godotenv.Load()
	return DefaultConfig()
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("api base URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.CacheFile == "" {
		return fmt.Errorf("cache file cannot be empty")
	}
	if c.CategoryCacheKey == "" {
		return fmt.Errorf("category cache key cannot be empty")
	}
	if c.IDCacheSize <= 0 {
		return fmt.Errorf("id cache size must be positive")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive")
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max page size (%d) cannot be below default page size (%d)", c.MaxPageSize, c.DefaultPageSize)
	}

	return nil
}

// EnvString reads a string env var, reporting whether it was set.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer env var, reporting whether it was set.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration reads a duration env var, reporting whether it was set.
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
