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

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Addr                   string
	Environment            string
	StoreDriver            string
	DatabaseURL            string
	JWTSecret              string
	TokenTTL               time.Duration
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	LockTTL                time.Duration
	RunMigrations          bool
	RunSeed                bool
	MigrationsDir          string
	UnitSeedFile           string
	SeedAdminUsername      string
	SeedAdminPassword      string
	DefaultStandardHours   float64
	DefaultOvertimePercent float64
	MaxBodyBytes           int64
	RateLimitPerMinute     int
	LogLevel               string
	LogFormat              string
	MetricsEnabled         bool
	JobQueueSize           int
	ShutdownTimeout        time.Duration
}

// Load reads the process environment, after merging any .env files given.
// Missing .env files are ignored.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
	return Config{
		Addr:                   getEnv("APP_ADDR", ":8080"),
		Environment:            getEnv("APP_ENV", "development"),
		StoreDriver:            strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		TokenTTL:               getEnvDuration("TOKEN_TTL", 12*time.Hour),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		LockTTL:                getEnvDuration("LOCK_TTL", 30*time.Second),
		RunMigrations:          getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                getEnvBool("RUN_SEED", true),
		MigrationsDir:          getEnv("MIGRATIONS_DIR", "migrations"),
		UnitSeedFile:           getEnv("UNIT_SEED_FILE", ""),
		SeedAdminUsername:      getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword:      getEnv("SEED_ADMIN_PASSWORD", ""),
		DefaultStandardHours:   getEnvFloat("DEFAULT_STANDARD_HOURS", 180),
		DefaultOvertimePercent: getEnvFloat("DEFAULT_OVERTIME_PERCENT", 70),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		MetricsEnabled:         getEnvBool("METRICS_ENABLED", true),
		JobQueueSize:           getEnvInt("JOB_QUEUE_SIZE", 128),
		ShutdownTimeout:        getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Environment == "production" {
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return errors.New("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.DefaultStandardHours <= 0 {
		return errors.New("DEFAULT_STANDARD_HOURS must be positive")
	}
	if c.DefaultOvertimePercent < 0 || c.DefaultOvertimePercent > 100 {
		return errors.New("DEFAULT_OVERTIME_PERCENT must be between 0 and 100")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.JobQueueSize <= 0 {
		return errors.New("JOB_QUEUE_SIZE must be positive")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.New("LOG_FORMAT must be json or console")
	}
	return nil
}
