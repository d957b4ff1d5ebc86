package testsupport

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-scm-inventory/inventory"
)

// SequentialIDs returns an id generator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// LoadItems reads a JSON array of items.
func LoadItems(t *testing.T, path string) []inventory.Item {
	t.Helper()

	var items []inventory.Item
	LoadFixtureJSON(t, path, &items)
	return items
}

// NewFixtureStore builds a store with the default categories and suppliers
// and the items of the fixture at path. New items get sequential ids.
func NewFixtureStore(t *testing.T, path string, opts ...inventory.StoreOption) *inventory.Store {
	t.Helper()

	base := []inventory.StoreOption{
		inventory.WithCategories(inventory.DefaultCategories()...),
		inventory.WithSuppliers(inventory.DefaultSuppliers()...),
		inventory.WithItems(LoadItems(t, path)...),
		inventory.WithIDGenerator(SequentialIDs("new")),
	}
	return inventory.NewStore(append(base, opts...)...)
}

// NewSeededStore builds the demo store with n items from a fixed seed.
func NewSeededStore(n int) *inventory.Store {
	return inventory.NewSeededStore(rand.New(rand.NewSource(1)), n,
		inventory.WithIDGenerator(SequentialIDs("it")),
	)
}

// Clock is a settable clock for code taking a func() time.Time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
