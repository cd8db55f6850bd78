package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	GitHub    GitHubConfig
	Redis     RedisConfig
	Cache     CacheConfig
	S3        S3Config
	RateLimit RateLimitConfig
}

// GitHubConfig identifies the catalog file and the credential used to reach it.
type GitHubConfig struct {
	Token    string
	Repo     string // owner/name
	FilePath string
	Branch   string
	APIURL   string
	Timeout  time.Duration
}

// RedisConfig contains Redis connection parameters. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CacheConfig controls the catalog snapshot cache and its refresh worker.
// A zero TTL disables caching.
type CacheConfig struct {
	TTL             time.Duration
	RefreshInterval time.Duration
}

// S3Config contains the catalog snapshot archive settings.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string
}

// RateLimitConfig limits write requests per client IP per minute. Zero disables it.
type RateLimitConfig struct {
	WritesPerMinute int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "")

	// GitHub
	cfg.GitHub = GitHubConfig{
		Token:    getEnv("GITHUB_TOKEN", ""),
		Repo:     getEnv("GITHUB_REPO", "ddy-devlopment/cloud"),
		FilePath: getEnv("GITHUB_FILEPATH", "db-products.json"),
		Branch:   getEnv("GITHUB_BRANCH", "main"),
		APIURL:   getEnv("GITHUB_API_URL", "https://api.github.com"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3 snapshot archive
	cfg.S3 = S3Config{
		Enabled: getEnvBool("S3_BACKUP_ENABLED", false),
		Bucket:  getEnv("S3_BUCKET", ""),
		Region:  getEnv("S3_REGION", "ap-southeast-3"),
		Prefix:  getEnv("S3_PREFIX", "catalog-snapshots/"),
	}

	cfg.RateLimit = RateLimitConfig{
		WritesPerMinute: getEnvInt("WRITE_RATE_LIMIT", 0),
	}

	// Durations
	var err error
	if cfg.GitHub.Timeout, err = parseDurationEnv("GITHUB_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid GITHUB_TIMEOUT: %w", err)
	}
	if cfg.Cache.TTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}
	if cfg.Cache.RefreshInterval, err = parseDurationEnv("CATALOG_REFRESH_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REFRESH_INTERVAL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise only fail at request time.
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("missing GitHub token: set GITHUB_TOKEN environment variable")
	}
	owner, name, ok := strings.Cut(c.GitHub.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid GITHUB_REPO %q: expected owner/name", c.GitHub.Repo)
	}
	if strings.Trim(c.GitHub.FilePath, "/") == "" {
		return errors.New("GITHUB_FILEPATH must not be empty")
	}
	if c.GitHub.Branch == "" {
		return errors.New("GITHUB_BRANCH must not be empty")
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required when S3_BACKUP_ENABLED is true")
	}
	if c.RateLimit.WritesPerMinute < 0 {
		return errors.New("WRITE_RATE_LIMIT must be >= 0")
	}
	return nil
}

// CacheEnabled reports whether the Redis snapshot cache should be used.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Host != "" && c.Cache.TTL > 0
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
