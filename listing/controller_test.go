package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-scm-inventory/cache"
	"github.com/goliatone/go-scm-inventory/debounce"
	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/inventorycache"
	"github.com/goliatone/go-scm-inventory/querycache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSeededSource(t *testing.T, n int, opts ...inventory.ServiceOption) *inventorycache.Service {
	t.Helper()
	cacheService, err := cache.NewCacheService(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to build cache: %v", err)
	}
	backend := inventory.NewService(inventory.NewSeededStore(nil, n), opts...)
	return inventorycache.New(backend, querycache.New(cacheService), nil)
}

func newManual() *debounce.ManualScheduler {
	return debounce.NewManualScheduler(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
}

func mustLoad(t *testing.T, c *Controller) View {
	t.Helper()
	v, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return v
}

func TestController_Pagination(t *testing.T) {
	c := New(newSeededSource(t, 28), WithScheduler(newManual()))
	defer c.Close()

	v := mustLoad(t, c)
	if len(v.Items) != 8 || v.Total != 28 || v.TotalPages != 4 || v.Status != StatusReady {
		t.Fatalf("unexpected first page %+v", v)
	}
	if v.Items[0].Name != "Item 1" {
		t.Errorf("expected insertion order, got %q first", v.Items[0].Name)
	}

	if p := c.Previous(); p != 1 {
		t.Errorf("expected Previous on page 1 to stay at 1, got %d", p)
	}

	for i := 0; i < 3; i++ {
		c.Next()
	}
	v = mustLoad(t, c)
	if v.Page != 4 || len(v.Items) != 4 {
		t.Errorf("expected 4 items on page 4, got %d on page %d", len(v.Items), v.Page)
	}

	if p := c.Next(); p != 4 {
		t.Errorf("expected Next on the last page to stay at 4, got %d", p)
	}
	if p := c.SetPage(99); p != 4 {
		t.Errorf("expected SetPage to clamp to 4, got %d", p)
	}
	if p := c.SetPage(-3); p != 1 {
		t.Errorf("expected SetPage to clamp to 1, got %d", p)
	}
}

func TestController_DebouncedSearch(t *testing.T) {
	sched := newManual()
	var keys []inventory.QueryKey
	c := New(newSeededSource(t, 28),
		WithScheduler(sched),
		OnKeyChange(func(k inventory.QueryKey) { keys = append(keys, k) }),
	)
	defer c.Close()

	mustLoad(t, c)
	c.Next()
	keys = nil

	c.SetSearch("I")
	sched.Advance(50 * time.Millisecond)
	c.SetSearch("Item")
	sched.Advance(50 * time.Millisecond)
	c.SetSearch("item 1")

	if got := c.Key(); got.Search != "" || got.Page != 2 {
		t.Fatalf("expected key unchanged before the quiet period, got %+v", got)
	}

	sched.Advance(debounce.SearchDelay)

	key := c.Key()
	if key.Search != "item 1" || key.Page != 1 {
		t.Fatalf("expected settled search on page 1, got %+v", key)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("expected one key change notification, got %v", keys)
	}

	v := mustLoad(t, c)
	// Item 1 and Item 10..19
	if v.Total != 11 || len(v.Items) != 8 || v.TotalPages != 2 {
		t.Errorf("unexpected search result %+v", v)
	}
}

func TestController_FilterWithoutPageReset(t *testing.T) {
	c := New(newSeededSource(t, 28), WithScheduler(newManual()), WithPageReset(false))
	defer c.Close()

	mustLoad(t, c)
	c.SetPage(3)
	c.SetCategory("Kemasan")

	v := mustLoad(t, c)
	if v.Page != 3 || v.Total != 7 || v.Status != StatusEmpty {
		t.Errorf("expected an empty page 3 of 7 kemasan items, got %+v", v)
	}
	if v.TotalPages != 1 {
		t.Errorf("expected 1 page, got %d", v.TotalPages)
	}
}

func TestController_CategoryFilter(t *testing.T) {
	c := New(newSeededSource(t, 28), WithScheduler(newManual()))
	defer c.Close()

	mustLoad(t, c)
	c.SetPage(3)
	c.SetCategory("Kemasan")

	v := mustLoad(t, c)
	if v.Page != 1 || v.Total != 7 || len(v.Items) != 7 {
		t.Fatalf("expected 7 kemasan items on page 1, got %+v", v)
	}
	for _, it := range v.Items {
		if it.Category != "Kemasan" {
			t.Errorf("unexpected category %q", it.Category)
		}
	}

	c.SetCategory(inventory.CategoryAll)
	if c.Key().Category != "" {
		t.Errorf("expected all to clear the filter, got %q", c.Key().Category)
	}
}

func TestController_EmptyAndErrorStates(t *testing.T) {
	var failing sync.Map
	source := newSeededSource(t, 28, inventory.WithFaults(func(ctx context.Context, op string) error {
		if _, ok := failing.Load(op); ok {
			return inventory.ErrBackendUnavailable
		}
		return nil
	}))
	c := New(source, WithScheduler(newManual()))
	defer c.Close()

	first := mustLoad(t, c)

	c.SetSearch("no such item")
	c.FlushSearch()
	v := mustLoad(t, c)
	if v.Status != StatusEmpty || v.Total != 0 || v.TotalPages != 1 {
		t.Errorf("expected empty state, got %+v", v)
	}

	c.SetSearch("")
	c.FlushSearch()
	c.SetCategory("Lainnya")
	failing.Store(inventory.OpFetchItems, true)

	v, err := c.Load(context.Background())
	if !errors.Is(err, inventory.ErrBackendUnavailable) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if v.Status != StatusError || !errors.Is(v.Err, inventory.ErrBackendUnavailable) {
		t.Errorf("expected error state, got %+v", v)
	}

	failing.Delete(inventory.OpFetchItems)
	c.SetCategory("")
	v = mustLoad(t, c)
	if v.Status != StatusReady || v.Err != nil || v.Total != first.Total {
		t.Errorf("expected recovery from cache, got %+v", v)
	}
}

// blockingSource serves pages from a function and blocks FetchItems until
// released.
type blockingSource struct {
	mu      sync.Mutex
	pages   func(inventory.QueryKey) inventory.Page
	release chan struct{}
	started chan inventory.QueryKey
}

func (b *blockingSource) FetchItems(ctx context.Context, key inventory.QueryKey) (inventory.Page, error) {
	b.mu.Lock()
	release, started := b.release, b.started
	b.mu.Unlock()
	if started != nil {
		started <- key
	}
	if release != nil {
		<-release
	}
	return b.pages(key), nil
}

func (b *blockingSource) PeekItems(key inventory.QueryKey) (inventory.Page, querycache.Entry, bool) {
	return inventory.Page{}, querycache.Entry{}, false
}

func (b *blockingSource) block() (release chan struct{}, started chan inventory.QueryKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release = make(chan struct{})
	b.started = make(chan inventory.QueryKey, 1)
	return b.release, b.started
}

func pagesFrom(snapshot []inventory.Item) func(inventory.QueryKey) inventory.Page {
	return func(key inventory.QueryKey) inventory.Page {
		return inventory.Query(snapshot, key)
	}
}

func TestController_KeepsPreviousDataWhileFetching(t *testing.T) {
	store := inventory.NewSeededStore(nil, 28)
	source := &blockingSource{pages: pagesFrom(store.Snapshot())}
	c := New(source, WithScheduler(newManual()))
	defer c.Close()

	first := mustLoad(t, c)
	c.Next()

	release, started := source.block()
	done := make(chan View, 1)
	go func() {
		v, _ := c.Load(context.Background())
		done <- v
	}()
	<-started

	pending := c.View()
	if !pending.Fetching || pending.Status != StatusReady {
		t.Fatalf("expected previous data marked fetching, got %+v", pending)
	}
	if len(pending.Items) != 8 || pending.Items[0].ID != first.Items[0].ID {
		t.Errorf("expected page 1 items to stay visible while page 2 loads")
	}

	close(release)
	v := <-done
	if v.Page != 2 || v.Fetching || v.Items[0].Name != "Item 9" {
		t.Errorf("expected page 2 after load, got %+v", v)
	}
}

func TestController_IgnoresSupersededResult(t *testing.T) {
	store := inventory.NewSeededStore(nil, 28)
	source := &blockingSource{pages: pagesFrom(store.Snapshot())}
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(source, WithScheduler(newManual()), WithLogger(zap.New(core)))
	defer c.Close()

	release, started := source.block()
	done := make(chan View, 1)
	go func() {
		v, _ := c.Load(context.Background())
		done <- v
	}()
	<-started

	c.SetCategory("Kemasan")
	close(release)
	stale := <-done

	if len(stale.Items) != 0 || !stale.Fetching {
		t.Errorf("expected the unfiltered result to be dropped, got %+v", stale)
	}
	if n := logs.FilterMessage("list result superseded").Len(); n != 1 {
		t.Errorf("expected 1 superseded log entry, got %d", n)
	}

	source.mu.Lock()
	source.release, source.started = nil, nil
	source.mu.Unlock()

	v := mustLoad(t, c)
	if v.Category != "Kemasan" || v.Total != 7 {
		t.Errorf("expected the filtered page, got %+v", v)
	}
}

type stubGate struct{ err error }

func (g stubGate) Require() error { return g.err }

func TestController_Gate(t *testing.T) {
	denied := errors.New("not signed in")
	c := New(newSeededSource(t, 5), WithScheduler(newManual()), WithGate(stubGate{err: denied}))
	defer c.Close()

	v, err := c.Load(context.Background())
	if !errors.Is(err, denied) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if v.Status != StatusError || v.Items != nil {
		t.Errorf("expected error view without data, got %+v", v)
	}

	open := New(newSeededSource(t, 5), WithScheduler(newManual()), WithGate(stubGate{}), WithPageSize(2))
	defer open.Close()
	v = mustLoad(t, open)
	if len(v.Items) != 2 || v.TotalPages != 3 {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestController_CloseDropsPendingSearch(t *testing.T) {
	sched := newManual()
	c := New(newSeededSource(t, 5), WithScheduler(sched))

	c.SetSearch("Item 2")
	c.Close()
	sched.Advance(time.Second)

	if got := c.Key().Search; got != "" {
		t.Errorf("expected pending search to be dropped, got %q", got)
	}
}
