package inventory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Operation names passed to fault injectors and used in logs.
const (
	OpFetchItems      = "fetch_items"
	OpCreateItem      = "create_item"
	OpUpdateItem      = "update_item"
	OpDeleteItem      = "delete_item"
	OpFetchCategories = "fetch_categories"
	OpCreateCategory  = "create_category"
	OpFetchSuppliers  = "fetch_suppliers"
)

// Backend is the in-process stand-in for the inventory API.
type Backend interface {
	FetchItems(ctx context.Context, key QueryKey) (Page, error)
	CreateItem(ctx context.Context, input ItemInput) (Item, error)
	UpdateItem(ctx context.Context, id string, patch ItemPatch) (Item, error)
	DeleteItem(ctx context.Context, id string) (DeleteResult, error)
	FetchCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
	FetchSuppliers(ctx context.Context) ([]Supplier, error)
}

// Latency is the simulated network delay range. A zero value disables it.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLatency mirrors the delay of the mocked API.
var DefaultLatency = Latency{Min: 300 * time.Millisecond, Max: 300 * time.Millisecond}

// FaultInjector decides whether an operation fails before touching the store.
type FaultInjector func(ctx context.Context, op string) error

// Service implements Backend over a Store with simulated latency.
type Service struct {
	store   *Store
	latency Latency
	faults  FaultInjector
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ Backend = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLatency sets the simulated latency range.
func WithLatency(l Latency) ServiceOption {
	return func(s *Service) {
		s.latency = l
	}
}

// WithFaults installs a fault injector.
func WithFaults(fn FaultInjector) ServiceOption {
	return func(s *Service) {
		s.faults = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSleeper replaces the context aware sleep used for latency.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithRand sets the source used to pick delays inside the latency range.
func WithRand(r *rand.Rand) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// NewService builds a backend over store. Latency defaults to none.
func NewService(store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: zap.NewNop(),
		sleep:  sleepContext,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) delay() time.Duration {
	l := s.latency
	if l.Max <= l.Min {
		return l.Min
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return l.Min + time.Duration(s.rng.Int63n(int64(l.Max-l.Min)+1))
}

// begin suspends for the simulated latency and applies fault injection.
func (s *Service) begin(ctx context.Context, op string) error {
	if err := s.sleep(ctx, s.delay()); err != nil {
		return err
	}
	if s.faults != nil {
		if err := s.faults(ctx, op); err != nil {
			s.logger.Warn("inventory fault injected", zap.String("op", op), zap.Error(err))
			return err
		}
	}
	return nil
}

// FetchItems returns one page of items matching key.
func (s *Service) FetchItems(ctx context.Context, key QueryKey) (Page, error) {
	if err := s.begin(ctx, OpFetchItems); err != nil {
		return Page{}, err
	}
	return Query(s.store.Snapshot(), key), nil
}

// CreateItem validates input and inserts the item at the front.
func (s *Service) CreateItem(ctx context.Context, input ItemInput) (Item, error) {
	if err := s.begin(ctx, OpCreateItem); err != nil {
		return Item{}, err
	}
	if err := ValidateInput(input, s.store); err != nil {
		return Item{}, err
	}

	created := s.store.InsertFront(input)
	s.logger.Debug("inventory item created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateItem merges patch into the item with id. A missing id is reported
// before the patch is validated.
func (s *Service) UpdateItem(ctx context.Context, id string, patch ItemPatch) (Item, error) {
	if err := s.begin(ctx, OpUpdateItem); err != nil {
		return Item{}, err
	}
	if _, ok := s.store.Get(id); !ok {
		return Item{}, itemNotFound(id)
	}
	if err := ValidatePatch(patch, s.store); err != nil {
		return Item{}, err
	}

	updated, err := s.store.Update(id, patch)
	if err != nil {
		return Item{}, err
	}
	s.logger.Debug("inventory item updated", zap.String("id", id))
	return updated, nil
}

// DeleteItem removes the item with id. Deleting a missing id succeeds.
func (s *Service) DeleteItem(ctx context.Context, id string) (DeleteResult, error) {
	if err := s.begin(ctx, OpDeleteItem); err != nil {
		return DeleteResult{}, err
	}
	removed := s.store.Remove(id)
	s.logger.Debug("inventory item deleted", zap.String("id", id), zap.Bool("removed", removed))
	return DeleteResult{OK: true}, nil
}

// FetchCategories lists categories.
func (s *Service) FetchCategories(ctx context.Context) ([]Category, error) {
	if err := s.begin(ctx, OpFetchCategories); err != nil {
		return nil, err
	}
	return s.store.Categories(), nil
}

// CreateCategory appends a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	if err := s.begin(ctx, OpCreateCategory); err != nil {
		return Category{}, err
	}
	if err := ValidateCategoryName(name); err != nil {
		return Category{}, err
	}

	c, err := s.store.AppendCategory(strings.TrimSpace(name))
	if err != nil {
		return Category{}, err
	}
	s.logger.Debug("inventory category created", zap.String("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// FetchSuppliers lists suppliers.
func (s *Service) FetchSuppliers(ctx context.Context) ([]Supplier, error) {
	if err := s.begin(ctx, OpFetchSuppliers); err != nil {
		return nil, err
	}
	return s.store.Suppliers(), nil
}
