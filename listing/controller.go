// Package listing drives the paginated item list: page state, debounced
// search and category filter combined into a query key and read through the
// query cache.
package listing

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-scm-inventory/debounce"
	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/querycache"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of items per page.
const DefaultPageSize = 8

// Status is what the list view should render.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusEmpty   Status = "empty"
	StatusReady   Status = "ready"
)

// View is the renderable state of the list. Items may belong to a previous
// key while Fetching is true.
type View struct {
	Items      []inventory.Item
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Search     string
	Category   string
	Status     Status
	Err        error
	Fetching   bool
}

// Source is the cached item backend the controller reads from.
type Source interface {
	FetchItems(ctx context.Context, key inventory.QueryKey) (inventory.Page, error)
	PeekItems(key inventory.QueryKey) (inventory.Page, querycache.Entry, bool)
}

// Gate blocks loads while signed out.
type Gate interface {
	Require() error
}

// Controller holds the list state. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	source    Source
	gate      Gate
	logger    *zap.Logger
	pageSize  int
	resetPage bool

	searchDelay time.Duration
	scheduler   debounce.Scheduler
	search      *debounce.Debouncer[string]
	onKeyChange func(inventory.QueryKey)

	page     int
	category string

	view  View
	shown bool
	seq   uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPageReset controls whether search and category changes go back to
// page 1. It defaults to true.
func WithPageReset(reset bool) Option {
	return func(c *Controller) {
		c.resetPage = reset
	}
}

// WithGate requires gate to pass before every load.
func WithGate(g Gate) Option {
	return func(c *Controller) {
		c.gate = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSearchDelay sets the search quiet period.
func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.searchDelay = d
	}
}

// WithScheduler sets the scheduler used by the search debouncer.
func WithScheduler(s debounce.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// OnKeyChange registers fn to run whenever the query key changes, including
// when a debounced search settles.
func OnKeyChange(fn func(inventory.QueryKey)) Option {
	return func(c *Controller) {
		c.onKeyChange = fn
	}
}

// New builds a controller on page 1 with no filters.
func New(source Source, opts ...Option) *Controller {
	c := &Controller{
		source:      source,
		logger:      zap.NewNop(),
		pageSize:    DefaultPageSize,
		resetPage:   true,
		searchDelay: debounce.SearchDelay,
		scheduler:   debounce.SystemScheduler{},
		page:        1,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.search = debounce.New("", c.searchDelay,
		debounce.WithScheduler[string](c.scheduler),
		debounce.OnChange(c.searchSettled),
	)
	c.view = View{
		Page:       1,
		PageSize:   c.pageSize,
		TotalPages: 1,
		Status:     StatusLoading,
	}
	return c
}

// Close stops the search debouncer. A pending search is dropped.
func (c *Controller) Close() {
	c.search.Close()
}

// Key returns the query key for the current state.
func (c *Controller) Key() inventory.QueryKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyLocked()
}

func (c *Controller) keyLocked() inventory.QueryKey {
	return inventory.NewQueryKey(c.page, c.pageSize, c.search.Value(), c.category)
}

// View returns the last computed view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetSearch feeds raw search input. The key changes once the input has
// been quiet for the search delay.
func (c *Controller) SetSearch(text string) {
	c.search.Set(text)
}

// FlushSearch applies pending search input immediately.
func (c *Controller) FlushSearch() {
	c.search.Flush()
}

func (c *Controller) searchSettled(string) {
	c.mu.Lock()
	if c.resetPage {
		c.page = 1
	}
	key := c.keyLocked()
	c.mu.Unlock()

	c.notify(key)
}

// SetCategory selects a category by name. Empty or "all" clears the filter.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	if category == inventory.CategoryAll {
		category = ""
	}
	if category == c.category {
		c.mu.Unlock()
		return
	}
	c.category = category
	if c.resetPage {
		c.page = 1
	}
	key := c.keyLocked()
	c.mu.Unlock()

	c.notify(key)
}

// SetPage moves to page, clamped to the known page range.
func (c *Controller) SetPage(page int) int {
	c.mu.Lock()
	prev := c.page
	c.page = clamp(page, c.view.Total, c.pageSize)
	current := c.page
	key := c.keyLocked()
	c.mu.Unlock()

	if current != prev {
		c.notify(key)
	}
	return current
}

// Next moves one page forward, not past the last page.
func (c *Controller) Next() int {
	return c.SetPage(c.currentPage() + 1)
}

// Previous moves one page back, not before page 1.
func (c *Controller) Previous() int {
	return c.SetPage(c.currentPage() - 1)
}

func (c *Controller) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) notify(key inventory.QueryKey) {
	if c.onKeyChange != nil {
		c.onKeyChange(key)
	}
}

// clamp keeps page within [1, max(1, ceil(total/pageSize))].
func clamp(page, total, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := inventory.TotalPages(total, pageSize); page > last {
		return last
	}
	return page
}

// Load reads the page for the current key. While the read is in flight the
// view keeps the previous data with Fetching set; a result for a key that is
// no longer current is dropped and the current view returned.
func (c *Controller) Load(ctx context.Context) (View, error) {
	if c.gate != nil {
		if err := c.gate.Require(); err != nil {
			c.mu.Lock()
			c.view.Status = StatusError
			c.view.Err = err
			c.view.Fetching = false
			v := c.view
			c.mu.Unlock()
			return v, err
		}
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	key := c.keyLocked()
	c.view = c.pendingView(key)
	c.mu.Unlock()

	page, err := c.source.FetchItems(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || key != c.keyLocked() {
		c.logger.Debug("list result superseded",
			zap.Int("page", key.Page),
			zap.String("search", key.Search),
			zap.String("category", key.Category),
		)
		return c.view, nil
	}

	if err != nil {
		c.view.Status = StatusError
		c.view.Err = err
		c.view.Fetching = false
		c.logger.Warn("list load failed", zap.Int("page", key.Page), zap.Error(err))
		return c.view, err
	}

	c.view = viewOf(key, page)
	c.shown = true
	return c.view, nil
}

// pendingView is shown while key loads: the cached page for key when there
// is one, else the previous view. Caller holds mu.
func (c *Controller) pendingView(key inventory.QueryKey) View {
	if page, entry, ok := c.source.PeekItems(key); ok {
		v := viewOf(key, page)
		v.Fetching = entry.Status != querycache.StatusFresh
		return v
	}

	if !c.shown {
		return View{
			Page:       key.Page,
			PageSize:   key.PageSize,
			TotalPages: 1,
			Search:     key.Search,
			Category:   key.Category,
			Status:     StatusLoading,
			Fetching:   true,
		}
	}

	v := c.view
	v.Fetching = true
	v.Err = nil
	if v.Status == StatusError {
		v.Status = StatusLoading
	}
	return v
}

func viewOf(key inventory.QueryKey, page inventory.Page) View {
	status := StatusReady
	if len(page.Items) == 0 {
		status = StatusEmpty
	}
	return View{
		Items:      page.Items,
		Total:      page.Total,
		Page:       key.Page,
		PageSize:   key.PageSize,
		TotalPages: inventory.TotalPages(page.Total, key.PageSize),
		Search:     key.Search,
		Category:   key.Category,
		Status:     status,
	}
}
