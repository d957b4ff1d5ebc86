package inventory

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds the authoritative ordered item sequence plus the category and
// supplier reference collections. Its methods are the only mutation points.
type Store struct {
	mu         sync.RWMutex
	items      []Item
	categories []Category
	suppliers  []Supplier
	newID      func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator overrides the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithCategories sets the initial categories.
func WithCategories(categories ...Category) StoreOption {
	return func(s *Store) {
		s.categories = append([]Category(nil), categories...)
	}
}

// WithSuppliers sets the supplier collection.
func WithSuppliers(suppliers ...Supplier) StoreOption {
	return func(s *Store) {
		s.suppliers = append([]Supplier(nil), suppliers...)
	}
}

// WithItems sets the initial items in order. IDs are kept as given.
func WithItems(items ...Item) StoreOption {
	return func(s *Store) {
		s.items = append([]Item(nil), items...)
	}
}

// NewStore creates an empty store unless options seed it.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InsertFront assigns a fresh ID and puts the item first.
func (s *Store) InsertFront(input ItemInput) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := Item{
		ID:           s.newID(),
		Name:         input.Name,
		Category:     input.Category,
		Unit:         input.Unit,
		Stock:        input.Stock,
		MinimumStock: input.MinimumStock,
		SupplierID:   input.SupplierID,
	}

	s.items = append(s.items, Item{})
	copy(s.items[1:], s.items)
	s.items[0] = it
	return it
}

// Update merges patch into the item with id.
func (s *Store) Update(id string, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = patch.apply(s.items[i])
			return s.items[i], nil
		}
	}
	return Item{}, itemNotFound(id)
}

// Get returns the item with id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Remove deletes the item with id. Missing ids are ignored.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current item sequence.
func (s *Store) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.items...)
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Categories returns a copy of the categories in insertion order.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...)
}

// HasCategory reports whether a category with name exists.
func (s *Store) HasCategory(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCategoryLocked(name)
}

func (s *Store) hasCategoryLocked(name string) bool {
	for _, c := range s.categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AppendCategory adds a category with a fresh ID. Names must be unique.
func (s *Store) AppendCategory(name string) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCategoryLocked(name) {
		return Category{}, categoryExists(name)
	}
	c := Category{ID: s.newID(), Name: name}
	s.categories = append(s.categories, c)
	return c, nil
}

// Suppliers returns a copy of the suppliers.
func (s *Store) Suppliers() []Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Supplier(nil), s.suppliers...)
}

// HasSupplier reports whether a supplier with id exists.
func (s *Store) HasSupplier(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sup := range s.suppliers {
		if sup.ID == id {
			return true
		}
	}
	return false
}
