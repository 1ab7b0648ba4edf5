package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFAULT_STANDARD_HOURS", "")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 180.0, cfg.DefaultStandardHours)
	assert.Equal(t, 70.0, cfg.DefaultOvertimePercent)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nDEFAULT_OVERTIME_PERCENT=55.5\nLOCK_TTL=5s\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("DEFAULT_OVERTIME_PERCENT")
		os.Unsetenv("LOCK_TTL")
	})

	cfg := Load(path)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 55.5, cfg.DefaultOvertimePercent)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("TOKEN_TTL", "forever")
	cfg := Load(filepath.Join(t.TempDir(), "none.env"))
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		StoreDriver:            StoreDriverMemory,
		JWTSecret:              "secret",
		TokenTTL:               time.Hour,
		DefaultStandardHours:   180,
		DefaultOvertimePercent: 70,
		MaxBodyBytes:           4096,
		RateLimitPerMinute:     10,
		JobQueueSize:           1,
		LogFormat:              "json",
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"postgres without url": func(c *Config) { c.StoreDriver = StoreDriverPostgres },
		"unknown driver":       func(c *Config) { c.StoreDriver = "sqlite" },
		"missing secret":       func(c *Config) { c.JWTSecret = "" },
		"short prod secret":    func(c *Config) { c.Environment = "production" },
		"zero standard":        func(c *Config) { c.DefaultStandardHours = 0 },
		"percent above range":  func(c *Config) { c.DefaultOvertimePercent = 101 },
		"tiny body limit":      func(c *Config) { c.MaxBodyBytes = 10 },
		"bad log format":       func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
