// Package di wires the inventory stack from configuration: the sturdyc
// cache, the query cache client, the simulated backend and the views that
// read through them.
package di

import (
	"math/rand"
	"time"

	"github.com/goliatone/go-scm-inventory/auth"
	"github.com/goliatone/go-scm-inventory/cache"
	"github.com/goliatone/go-scm-inventory/config"
	"github.com/goliatone/go-scm-inventory/dashboard"
	"github.com/goliatone/go-scm-inventory/debounce"
	"github.com/goliatone/go-scm-inventory/internal/metrics"
	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/inventorycache"
	"github.com/goliatone/go-scm-inventory/listing"
	"github.com/goliatone/go-scm-inventory/querycache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container holds the singleton instances shared by every view.
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	registry      *prometheus.Registry
	recorder      *metrics.CacheRecorder
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	queryCache    *querycache.Client
	store         *inventory.Store
	backend       *inventory.Service
	inventory     *inventorycache.Service
	gate          *auth.Gate
	dashboard     *dashboard.Provider

	serviceOpts []inventory.ServiceOption
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore replaces the seeded store.
func WithStore(store *inventory.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithRegistry registers the cache metrics on reg instead of a new registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithServiceOptions appends options to the simulated backend, after the
// configured latency.
func WithServiceOptions(opts ...inventory.ServiceOption) Option {
	return func(c *Container) {
		c.serviceOpts = append(c.serviceOpts, opts...)
	}
}

// NewContainer builds every component from cfg.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	c := &Container{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := cfg.Inventory.Validate(); err != nil {
		return nil, err
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	cacheService, err := cache.NewCacheService(cfg.Cache.ToCacheConfig())
	if err != nil {
		return nil, err
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewDefaultKeySerializer()

	recorder, err := metrics.NewCacheRecorder(c.registry)
	if err != nil {
		return nil, err
	}
	c.recorder = recorder

	c.queryCache = querycache.New(cacheService,
		querycache.WithLogger(c.logger.Named("querycache")),
		querycache.WithRecorder(recorder),
	)

	if c.store == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		c.store = inventory.NewSeededStore(rng, cfg.Inventory.SeedItems)
	}

	serviceOpts := append([]inventory.ServiceOption{
		inventory.WithLatency(inventory.Latency{
			Min: cfg.Inventory.LatencyMin,
			Max: cfg.Inventory.LatencyMax,
		}),
		inventory.WithLogger(c.logger.Named("inventory")),
	}, c.serviceOpts...)
	c.backend = inventory.NewService(c.store, serviceOpts...)
	c.inventory = inventorycache.New(c.backend, c.queryCache, c.keySerializer)

	c.gate = auth.NewGate(auth.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	}, auth.WithLogger(c.logger.Named("auth")))

	c.dashboard = dashboard.NewProvider(c.store,
		dashboard.WithCache(c.queryCache),
		dashboard.WithLogger(c.logger.Named("dashboard")),
	)

	return c, nil
}

// NewContainerWithDefaults builds a container from the environment.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(config.LoadEnv(), opts...)
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config { return c.config }

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Registry is the prometheus registry holding the cache metrics.
func (c *Container) Registry() *prometheus.Registry { return c.registry }

// Metrics returns the cache counters.
func (c *Container) Metrics() *metrics.CacheRecorder { return c.recorder }

// CacheService returns the sturdyc backed cache below the query cache.
func (c *Container) CacheService() cache.CacheService { return c.cacheService }

// KeySerializer returns the serializer shared by every cached read.
func (c *Container) KeySerializer() cache.KeySerializer { return c.keySerializer }

// QueryCache returns the client tracking freshness and invalidation.
func (c *Container) QueryCache() *querycache.Client { return c.queryCache }

// Store returns the item store shared by the backend and dashboard.
func (c *Container) Store() *inventory.Store { return c.store }

// Backend is the uncached simulated service.
func (c *Container) Backend() *inventory.Service { return c.backend }

// Inventory is the cached service every view should use.
func (c *Container) Inventory() *inventorycache.Service { return c.inventory }

// Gate returns the sign-in gate guarding list loads.
func (c *Container) Gate() *auth.Gate { return c.gate }

// Dashboard returns the cached dashboard provider.
func (c *Container) Dashboard() *dashboard.Provider { return c.dashboard }

// NewListing returns a list controller over the cached inventory, gated on
// sign-in and using the configured page size and search delay. Extra
// options are applied last.
func (c *Container) NewListing(opts ...listing.Option) *listing.Controller {
	base := []listing.Option{
		listing.WithGate(c.gate),
		listing.WithPageSize(c.config.Inventory.PageSize),
		listing.WithSearchDelay(c.config.Debounce.Search),
		listing.WithLogger(c.logger.Named("listing")),
	}
	return listing.New(c.inventory, append(base, opts...)...)
}

// NewNavigation returns a debouncer for the active view, delayed by the
// configured navigation delay so quick successive switches settle once.
func (c *Container) NewNavigation(initial string, opts ...debounce.Option[string]) *debounce.Debouncer[string] {
	return debounce.New(initial, c.config.Debounce.Navigation, opts...)
}
