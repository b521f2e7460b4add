// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// RedisConfig provides settings for the Redis invalidation channel.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	IsRedisEnabled() bool
}

// RulesConfig provides settings for the rules cache and history paging.
type RulesConfig interface {
	GetRulesCacheTTL() time.Duration
	GetRulesHistoryPageSize() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RulesCacheTTL        time.Duration
	RulesHistoryPageSize int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string     { return c.RedisAddr }
func (c *Config) GetRedisPassword() string { return c.RedisPassword }
func (c *Config) GetRedisDB() int          { return c.RedisDB }
func (c *Config) IsRedisEnabled() bool     { return c.RedisAddr != "" }

// RulesConfig implementation
func (c *Config) GetRulesCacheTTL() time.Duration { return c.RulesCacheTTL }
func (c *Config) GetRulesHistoryPageSize() int    { return c.RulesHistoryPageSize }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              int(mustInt64(getEnv("REDIS_DB", "0"))),
		RulesCacheTTL:        mustDuration(getEnv("RULES_CACHE_TTL", "5m")),
		RulesHistoryPageSize: int(mustInt64(getEnv("RULES_HISTORY_PAGE_SIZE", "20"))),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RulesCacheTTL <= 0 {
		cfg.RulesCacheTTL = 5 * time.Minute
	}
	if cfg.RulesHistoryPageSize <= 0 {
		cfg.RulesHistoryPageSize = 20
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}
