package querycache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-scm-inventory/cache"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Namespaces used by the inventory dashboard.
const (
	NamespaceInventory  = "inventory"
	NamespaceCategories = "categories"
	NamespaceSuppliers  = "suppliers"
	NamespaceDashboard  = "dashboard"
)

// DefaultStaleTimes returns how long entries of each namespace are served
// before a read refetches. Namespaces without a stale time stay fresh until
// they are invalidated or evicted by the backend.
func DefaultStaleTimes() map[string]time.Duration {
	return map[string]time.Duration{
		NamespaceCategories: 5 * time.Minute,
		NamespaceSuppliers:  5 * time.Minute,
		NamespaceDashboard:  2 * time.Minute,
	}
}

const generationSeparator = "#"

// Status is the freshness of a cache entry.
type Status string

const (
	StatusFresh Status = "fresh"
	StatusStale Status = "stale"
)

// Entry is the last known result for a key.
type Entry struct {
	Value      any
	Status     Status
	UpdatedAt  time.Time
	Generation uint64
}

// Recorder receives cache activity, see internal/metrics.
type Recorder interface {
	Read(namespace string)
	Fetch(namespace string)
	FetchError(namespace string)
	Invalidation(namespace string, entries int)
}

type nopRecorder struct{}

func (nopRecorder) Read(string)              {}
func (nopRecorder) Fetch(string)             {}
func (nopRecorder) FetchError(string)        {}
func (nopRecorder) Invalidation(string, int) {}

// keyState is the bookkeeping for one tracked key. generation is bumped on
// every invalidation; a fetch started under an older generation is stored
// as stale.
type keyState struct {
	tags       []string
	generation uint64
	entry      Entry
	hasEntry   bool
}

// Client layers freshness, invalidation and last-known values over a
// cache.CacheService. The backend keeps at most one fetch in flight per key;
// Client decides whether what it holds may still be served.
type Client struct {
	backend    cache.CacheService
	keys       *xsync.MapOf[string, keyState]
	staleTimes map[string]time.Duration
	logger     *zap.Logger
	recorder   Recorder
	now        func() time.Time
}

var _ cache.CacheService = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithStaleTime sets the stale time of namespace. Zero disables it.
func WithStaleTime(namespace string, d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			delete(c.staleTimes, namespace)
			return
		}
		c.staleTimes[namespace] = d
	}
}

// New wraps backend.
func New(backend cache.CacheService, opts ...Option) *Client {
	c := &Client{
		backend:    backend,
		keys:       xsync.NewMapOf[string, keyState](),
		staleTimes: DefaultStaleTimes(),
		logger:     zap.NewNop(),
		recorder:   nopRecorder{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrFetch serves key from the backend while its entry is fresh and
// fetches otherwise. Fetch errors are returned unchanged and leave the
// entry as it was.
func (c *Client) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	ns := cache.NamespaceOf(key)
	c.recorder.Read(ns)

	tags := cacheTagsFromContext(ctx)
	st, _ := c.keys.Compute(key, func(old keyState, _ bool) (keyState, bool) {
		if len(tags) > 0 {
			old.tags = dedupeStrings(append(append([]string(nil), old.tags...), tags...))
		}
		return old, false
	})

	gen := st.generation
	bkey := backendKey(key, gen)
	if st.hasEntry && !c.servable(ns, st.entry) {
		if err := c.backend.Delete(ctx, bkey); err != nil {
			c.logger.Warn("query cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}

	if fetchFn == nil {
		return c.backend.GetOrFetch(ctx, bkey, nil)
	}

	return c.backend.GetOrFetch(ctx, bkey, func(ctx context.Context) (any, error) {
		c.recorder.Fetch(ns)

		value, err := fetchFn(ctx)
		if err != nil {
			c.recorder.FetchError(ns)
			c.logger.Warn("query cache fetch failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}

		c.store(key, value, gen)
		return value, nil
	})
}

// backendKey scopes key to a generation, so a read made after an
// invalidation never joins a fetch started before it.
func backendKey(key string, gen uint64) string {
	return key + generationSeparator + strconv.FormatUint(gen, 10)
}

// Delete marks a single key stale.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.markStale(ctx, key) {
		c.recorder.Invalidation(cache.NamespaceOf(key), 1)
	}
	return nil
}

// DeleteByPrefix is Invalidate without the count.
func (c *Client) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.Invalidate(ctx, prefix)
	return nil
}

// Keys lists every tracked key.
func (c *Client) Keys() []string {
	var keys []string
	c.keys.Range(func(key string, _ keyState) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Invalidate marks every key matching prefix stale and drops the backend
// copies, keeping the last value for Peek. A prefix without the key
// separator names a namespace and also matches keys tagged with it; an
// empty prefix matches everything. It returns the number of keys marked.
func (c *Client) Invalidate(ctx context.Context, prefix string) int {
	var matched []string
	c.keys.Range(func(key string, st keyState) bool {
		if matches(key, st.tags, prefix) {
			matched = append(matched, key)
		}
		return true
	})

	n := 0
	for _, key := range matched {
		if c.markStale(ctx, key) {
			n++
		}
	}

	c.recorder.Invalidation(prefixNamespace(prefix), n)
	c.logger.Debug("query cache invalidated", zap.String("prefix", prefix), zap.Int("keys", n))
	return n
}

// Entry returns the metadata of key's last successful read.
func (c *Client) Entry(key string) (Entry, bool) {
	st, ok := c.keys.Load(key)
	if !ok || !st.hasEntry {
		return Entry{}, false
	}
	return st.entry, true
}

func (c *Client) markStale(ctx context.Context, key string) bool {
	var prev uint64
	_, ok := c.keys.Compute(key, func(old keyState, loaded bool) (keyState, bool) {
		if !loaded {
			return old, true
		}
		prev = old.generation
		old.generation++
		if old.hasEntry {
			old.entry.Status = StatusStale
		}
		return old, false
	})
	if !ok {
		return false
	}
	if err := c.backend.Delete(ctx, backendKey(key, prev)); err != nil {
		c.logger.Warn("query cache delete failed", zap.String("key", key), zap.Error(err))
	}
	return true
}

// store records value fetched under gen. A result from an older generation
// is kept as stale, and never replaces an entry fetched under a newer one.
func (c *Client) store(key string, value any, gen uint64) {
	st, _ := c.keys.Compute(key, func(old keyState, _ bool) (keyState, bool) {
		if old.hasEntry && old.entry.Generation > gen {
			return old, false
		}
		status := StatusFresh
		if old.generation != gen {
			status = StatusStale
		}
		old.entry = Entry{Value: value, Status: status, UpdatedAt: c.now(), Generation: gen}
		old.hasEntry = true
		return old, false
	})
	if st.generation != gen {
		c.logger.Debug("query cache result superseded", zap.String("key", key), zap.Uint64("generation", gen))
	}
}

func (c *Client) servable(namespace string, e Entry) bool {
	if e.Status != StatusFresh {
		return false
	}
	ttl, ok := c.staleTimes[namespace]
	return !ok || c.now().Sub(e.UpdatedAt) < ttl
}

func matches(key string, tags []string, prefix string) bool {
	if prefix == "" {
		return true
	}
	if strings.Contains(prefix, cache.KeySeparator) {
		return strings.HasPrefix(key, prefix)
	}
	ns := Namespace(prefix)
	if keyNS := cache.NamespaceOf(key); keyNS == prefix || keyNS == ns {
		return true
	}
	for _, tag := range tags {
		if tag == ns {
			return true
		}
	}
	return false
}

func prefixNamespace(prefix string) string {
	if prefix == "" {
		return "*"
	}
	return cache.NamespaceOf(prefix)
}

// Read is the typed form of Client.GetOrFetch.
func Read[T any](ctx context.Context, c *Client, key string, fetch cache.FetchFn[T]) (T, error) {
	return cache.GetOrFetch(ctx, c, key, fetch)
}

// Peek returns the last known value of key without fetching, together with
// its entry. ok is false when key was never read successfully or holds a
// value of another type.
func Peek[T any](c *Client, key string) (value T, entry Entry, ok bool) {
	entry, ok = c.Entry(key)
	if !ok {
		return value, Entry{}, false
	}
	if entry.Value == nil {
		return value, entry, true
	}
	value, ok = entry.Value.(T)
	return value, entry, ok
}

// Mutate runs fn and, only when it succeeds, invalidates namespaces. A
// failed mutation leaves the cache untouched and its error is returned as is.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), namespaces ...string) (T, error) {
	result, err := fn(ctx)
	if err != nil {
		c.logger.Debug("query cache mutation failed", zap.Strings("namespaces", namespaces), zap.Error(err))
		return result, err
	}
	for _, ns := range namespaces {
		c.Invalidate(ctx, ns)
	}
	return result, nil
}
