package inventory

import (
	"fmt"
	"math/rand"
)

// DefaultSuppliers returns the demo supplier list.
func DefaultSuppliers() []Supplier {
	return []Supplier{
		{ID: "sup-1", Name: "PT Bahan Sehat"},
		{ID: "sup-2", Name: "CV Agro"},
		{ID: "sup-3", Name: "Supplier Lokal"},
	}
}

// DefaultCategories returns the demo category list.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat-1", Name: "Bahan Baku"},
		{ID: "cat-2", Name: "Produk Jadi"},
		{ID: "cat-3", Name: "Kemasan"},
		{ID: "cat-4", Name: "Lainnya"},
	}
}

// SeedItems builds n demo items named "Item 1".."Item n". Categories and
// suppliers are assigned round-robin, stock is in [0,200) and minimum stock in
// [0,30). IDs come from newID. A nil r uses a fixed seed.
func SeedItems(r *rand.Rand, n int, categories []Category, suppliers []Supplier, newID func() string) []Item {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	if n < 0 {
		n = 0
	}
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		it := Item{
			ID:           newID(),
			Name:         fmt.Sprintf("Item %d", i+1),
			Unit:         UnitPieces,
			Stock:        r.Intn(200),
			MinimumStock: r.Intn(30),
		}
		if len(categories) > 0 {
			it.Category = categories[i%len(categories)].Name
		}
		if len(suppliers) > 0 {
			it.SupplierID = suppliers[i%len(suppliers)].ID
		}
		items = append(items, it)
	}
	return items
}

// NewSeededStore returns a store with the default categories and suppliers
// and n seeded items.
func NewSeededStore(r *rand.Rand, n int, opts ...StoreOption) *Store {
	s := NewStore(append([]StoreOption{
		WithCategories(DefaultCategories()...),
		WithSuppliers(DefaultSuppliers()...),
	}, opts...)...)

	s.mu.Lock()
	s.items = SeedItems(r, n, s.categories, s.suppliers, s.newID)
	s.mu.Unlock()
	return s
}
