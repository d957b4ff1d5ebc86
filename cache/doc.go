// Package cache provides the read-through cache service and key serialization
// used by the query cache.
//
// # Overview
//
//   - CacheService: read-through operations with at most one in-flight fetch per key
//   - KeySerializer: builds namespaced keys from the parameters of a read
//
// The default CacheService is backed by sturdyc, which coalesces concurrent
// GetOrFetch calls for the same key into a single fetch.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("inventory", inventory.QueryKey{Page: 1, PageSize: 8})
//
//	page, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (inventory.Page, error) {
//		return backend.FetchItems(ctx, query)
//	})
//
// # Key Format
//
// Keys have the form namespace::segment::segment. Struct arguments render as
// {Field=value,...} using exported fields in declaration order, maps are
// rendered with sorted pairs, and text is query-escaped so it can never
// contain the separator. Text longer than MaxInlineText is replaced by its
// xxhash digest to keep keys bounded.
//
// Every key of a namespace starts with NamespacePrefix(namespace), which is
// what DeleteByPrefix and the query cache invalidation match on.
package cache
