package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Config sizes the sturdyc client. Capacity, NumShards, TTL and
// EvictionPercentage are passed to sturdyc.New; the rest become options.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int // 1-100, share of a full shard dropped at once

	// EvictionInterval overrides the sturdyc expiry sweep when positive.
	EvictionInterval time.Duration
}

// DefaultConfig is a small cache with a five minute TTL. Early refreshes
// are never enabled: they would refresh entries behind the query cache's
// generation bookkeeping.
func DefaultConfig() Config {
	return Config{
		Capacity:           2048,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions returns the options for the optional fields.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

type check struct {
	failed  bool
	field   string
	message string
}

// Validate returns a ConfigError for the first invalid field.
func (c Config) Validate() error {
	checks := [...]check{
		{c.Capacity <= 0, "Capacity", "must be greater than 0"},
		{c.NumShards <= 0, "NumShards", "must be greater than 0"},
		{c.NumShards > c.Capacity, "NumShards", "must not exceed Capacity"},
		{c.TTL <= 0, "TTL", "must be greater than 0"},
		{c.EvictionPercentage < 1 || c.EvictionPercentage > 100, "EvictionPercentage", "must be between 1 and 100"},
		{c.EvictionInterval < 0, "EvictionInterval", "must be non-negative"},
	}

	for _, ch := range checks {
		if ch.failed {
			return &ConfigError{Field: ch.field, Message: ch.message}
		}
	}
	return nil
}

// ConfigError names the invalid field.
type ConfigError struct {
	Field   string
	Message string
}

// Error formats the field and message.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycService wraps a sturdyc client. sturdyc tracks in-flight fetches per
// key, so concurrent GetOrFetch calls for a missing key share one fetch.
type SturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and builds the sturdyc client.
func NewSturdycService(cfg Config) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycService{client: client}, nil
}

// GetOrFetch returns the cached value for key or runs fetchFn to populate it.
// Errors from fetchFn are returned as is and nothing is stored.
func (s *SturdycService) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	if fetchFn == nil {
		return nil, &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}
	return s.client.GetOrFetch(ctx, key, fetchFn)
}

// Delete removes a single entry so the next read fetches again.
func (s *SturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *SturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// Keys lists the keys currently held by the cache.
func (s *SturdycService) Keys() []string {
	return s.client.ScanKeys()
}
