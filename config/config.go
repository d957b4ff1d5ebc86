// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-scm-inventory/cache"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, grouped by concern.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Cache     CacheConfig
	Inventory InventoryConfig
	Debounce  DebounceConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
}

// AppConfig selects the environment, "dev" by default.
type AppConfig struct {
	Env string
}

// Development reports whether APP_ENV selects development defaults.
func (a AppConfig) Development() bool {
	return a.Env == "dev" || a.Env == "development"
}

// LoggerConfig feeds pkg/logger.
type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// CacheConfig sizes the sturdyc cache below the query cache.
type CacheConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// ToCacheConfig converts to the cache package configuration.
func (c CacheConfig) ToCacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Capacity = c.Capacity
	cfg.NumShards = c.NumShards
	cfg.TTL = c.TTL
	cfg.EvictionPercentage = c.EvictionPercentage
	return cfg
}

// InventoryConfig sizes the simulated backend and its seed data.
type InventoryConfig struct {
	LatencyMin time.Duration
	LatencyMax time.Duration
	PageSize   int
	SeedItems  int
}

// Validate rejects negative counts and latencies and a latency range whose
// maximum is below its minimum.
func (c InventoryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LatencyMin, validation.Min(time.Duration(0))),
		validation.Field(&c.LatencyMax, validation.Min(c.LatencyMin)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.SeedItems, validation.Min(0)),
	)
}

// DebounceConfig holds the quiet periods of search input and navigation.
type DebounceConfig struct {
	Search     time.Duration
	Navigation time.Duration
}

// AuthConfig holds the credentials the sign-in gate accepts.
type AuthConfig struct {
	Username string
	Password string
}

// MetricsConfig controls the prometheus endpoint of the example program.
type MetricsConfig struct {
	// Addr is where the example program serves /metrics. Empty disables it.
	Addr string
}

// Load reads the given env files, or .env when none are given, then calls
// LoadEnv. Missing files are ignored and variables already set win.
func Load(paths ...string) *Config {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
	return LoadEnv()
}

// LoadEnv builds a Config from the environment. Unset or unparsable values
// fall back to the defaults.
func LoadEnv() *Config {
	defaults := cache.DefaultConfig()
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "dev"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Cache: CacheConfig{
			Capacity:           getEnvInt("CACHE_CAPACITY", defaults.Capacity),
			NumShards:          getEnvInt("CACHE_SHARDS", defaults.NumShards),
			TTL:                getEnvDuration("CACHE_TTL", defaults.TTL),
			EvictionPercentage: getEnvInt("CACHE_EVICTION_PERCENTAGE", defaults.EvictionPercentage),
		},
		Inventory: InventoryConfig{
			LatencyMin: getEnvDuration("INVENTORY_LATENCY_MIN", 300*time.Millisecond),
			LatencyMax: getEnvDuration("INVENTORY_LATENCY_MAX", 300*time.Millisecond),
			PageSize:   getEnvInt("INVENTORY_PAGE_SIZE", 8),
			SeedItems:  getEnvInt("INVENTORY_SEED_ITEMS", 28),
		},
		Debounce: DebounceConfig{
			Search:     getEnvDuration("DEBOUNCE_SEARCH", 350*time.Millisecond),
			Navigation: getEnvDuration("DEBOUNCE_NAVIGATION", 70*time.Millisecond),
		},
		Auth: AuthConfig{
			Username: getEnv("AUTH_USERNAME", "admin"),
			Password: getEnv("AUTH_PASSWORD", "admin"),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts time.ParseDuration strings or plain milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
