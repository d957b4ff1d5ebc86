// Package querycache is the request cache behind the inventory views.
//
// Reads are keyed by a serialized query (see cache.KeySerializer) and go
// through a cache.CacheService, which shares one in-flight fetch between
// concurrent readers of the same key. On top of that the Client keeps a
// small table of entries:
//
//   - a fresh entry is served without fetching until it is invalidated or
//     its namespace stale time elapses
//   - Invalidate marks matching entries stale and drops the backend copy, but
//     the last value stays available through Peek so a view can keep showing
//     it while the next read is in flight
//   - every invalidation bumps the entry generation; a fetch that started
//     before the bump is stored as stale and refetched on the next read
//
// Mutations run through Mutate, which invalidates the given namespaces only
// when the mutation succeeds:
//
//	item, err := querycache.Mutate(ctx, client, func(ctx context.Context) (inventory.Item, error) {
//		return backend.CreateItem(ctx, input)
//	}, querycache.NamespaceInventory)
//
// Reads can be registered under extra namespaces with WithCacheTags, which
// is how dashboard entries follow inventory writes.
package querycache
