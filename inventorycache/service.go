package inventorycache

import (
	"context"

	"github.com/goliatone/go-scm-inventory/cache"
	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/querycache"
)

var _ inventory.Backend = (*Service)(nil)

// Service decorates an inventory backend with the query cache. Reads are
// served through the cache, writes pass through and invalidate the affected
// namespaces once they succeed.
type Service struct {
	base          inventory.Backend
	cache         *querycache.Client
	keySerializer cache.KeySerializer
}

// New wraps base.
func New(base inventory.Backend, client *querycache.Client, keySerializer cache.KeySerializer) *Service {
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}
	return &Service{
		base:          base,
		cache:         client,
		keySerializer: keySerializer,
	}
}

// Cache returns the query cache client.
func (s *Service) Cache() *querycache.Client {
	return s.cache
}

// ItemsKey returns the cache key of a page read.
func (s *Service) ItemsKey(key inventory.QueryKey) string {
	return s.keySerializer.SerializeKey(querycache.NamespaceInventory, key.Normalize())
}

// FetchItems reads one page through the cache.
func (s *Service) FetchItems(ctx context.Context, key inventory.QueryKey) (inventory.Page, error) {
	key = key.Normalize()
	return querycache.Read(ctx, s.cache, s.ItemsKey(key), func(ctx context.Context) (inventory.Page, error) {
		return s.base.FetchItems(ctx, key)
	})
}

// PeekItems returns the last known page for key without fetching.
func (s *Service) PeekItems(key inventory.QueryKey) (inventory.Page, querycache.Entry, bool) {
	return querycache.Peek[inventory.Page](s.cache, s.ItemsKey(key))
}

// FetchCategories reads the category list through the cache.
func (s *Service) FetchCategories(ctx context.Context) ([]inventory.Category, error) {
	key := s.keySerializer.SerializeKey(querycache.NamespaceCategories)
	return querycache.Read(ctx, s.cache, key, s.base.FetchCategories)
}

// FetchSuppliers reads the supplier list through the cache.
func (s *Service) FetchSuppliers(ctx context.Context) ([]inventory.Supplier, error) {
	key := s.keySerializer.SerializeKey(querycache.NamespaceSuppliers)
	return querycache.Read(ctx, s.cache, key, s.base.FetchSuppliers)
}

// CreateItem creates an item and invalidates inventory reads.
func (s *Service) CreateItem(ctx context.Context, input inventory.ItemInput) (inventory.Item, error) {
	return querycache.Mutate(ctx, s.cache, func(ctx context.Context) (inventory.Item, error) {
		return s.base.CreateItem(ctx, input)
	}, querycache.NamespaceInventory)
}

// UpdateItem updates an item and invalidates inventory reads.
func (s *Service) UpdateItem(ctx context.Context, id string, patch inventory.ItemPatch) (inventory.Item, error) {
	return querycache.Mutate(ctx, s.cache, func(ctx context.Context) (inventory.Item, error) {
		return s.base.UpdateItem(ctx, id, patch)
	}, querycache.NamespaceInventory)
}

// DeleteItem deletes an item and invalidates inventory reads.
func (s *Service) DeleteItem(ctx context.Context, id string) (inventory.DeleteResult, error) {
	return querycache.Mutate(ctx, s.cache, func(ctx context.Context) (inventory.DeleteResult, error) {
		return s.base.DeleteItem(ctx, id)
	}, querycache.NamespaceInventory)
}

// CreateCategory creates a category and invalidates category reads.
func (s *Service) CreateCategory(ctx context.Context, name string) (inventory.Category, error) {
	return querycache.Mutate(ctx, s.cache, func(ctx context.Context) (inventory.Category, error) {
		return s.base.CreateCategory(ctx, name)
	}, querycache.NamespaceCategories)
}
