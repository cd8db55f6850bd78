package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ddy-devlopment/cloud", cfg.GitHub.Repo)
	assert.Equal(t, "db-products.json", cfg.GitHub.FilePath)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, 30*time.Second, cfg.GitHub.Timeout)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, 0, cfg.RateLimit.WritesPerMinute)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_REPO", "acme/catalog")
	t.Setenv("GITHUB_TIMEOUT", "5s")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("S3_BACKUP_ENABLED", "true")
	t.Setenv("S3_BUCKET", "snapshots")
	t.Setenv("WRITE_RATE_LIMIT", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "acme/catalog", cfg.GitHub.Repo)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.S3.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.WritesPerMinute)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("CATALOG_CACHE_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "CATALOG_CACHE_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{GitHub: GitHubConfig{Token: "t", Repo: "a/b", FilePath: "db.json", Branch: "main"}}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"repo without owner", func(c *Config) { c.GitHub.Repo = "cloud" }, false},
		{"repo too deep", func(c *Config) { c.GitHub.Repo = "a/b/c" }, false},
		{"empty path", func(c *Config) { c.GitHub.FilePath = "/" }, false},
		{"empty branch", func(c *Config) { c.GitHub.Branch = "" }, false},
		{"s3 without bucket", func(c *Config) { c.S3.Enabled = true }, false},
		{"negative rate limit", func(c *Config) { c.RateLimit.WritesPerMinute = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
