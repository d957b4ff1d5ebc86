// Package inventorycache wraps an inventory.Backend with the query cache.
//
// Page reads are cached under the "inventory" namespace with the normalized
// QueryKey as the rest of the key, so "all" and the empty category share an
// entry. Categories and suppliers are cached under their own namespaces and
// follow the stale times configured on the querycache.Client.
//
// Item writes invalidate the inventory namespace, which also covers reads
// tagged with it (the dashboard tags its reads that way). Category writes
// invalidate the categories namespace. Failed writes invalidate nothing.
//
//	backend := inventory.NewService(store, inventory.WithLatency(inventory.DefaultLatency))
//	client := querycache.New(cacheService)
//	svc := inventorycache.New(backend, client, cache.NewDefaultKeySerializer())
//
//	page, err := svc.FetchItems(ctx, inventory.NewQueryKey(1, 8, "beras", ""))
package inventorycache
