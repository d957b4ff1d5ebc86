package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResultType is returned when a cached value cannot be converted to the requested type.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// KeySerializer builds a cache key from a namespace and the parameters of a read.
// Keys for the same namespace share the prefix namespace + KeySeparator so they
// can be invalidated together.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through caching operations used by the query cache.
// Implementations must run at most one fetch per key at a time; concurrent callers
// for a key with a fetch in flight share its outcome.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Keys() []string
}

// GetOrFetch is a type-safe wrapper around CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		value, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	// nil interface values come back from fetches returning a nil interface or pointer
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T for key %q", ErrInvalidResultType, result, key)
	}
	return typed, nil
}
