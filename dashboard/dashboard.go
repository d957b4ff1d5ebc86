// Package dashboard builds the summary shown on the landing page: stock
// stats from the store plus recent movements and a seven day chart.
package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/querycache"
	"go.uber.org/zap"
)

// PendingPOs is reported until purchase orders exist.
const PendingPOs = 3

const (
	movementCount = 8
	chartDays     = 7
	movementDate  = "2006-01-02"
	chartDate     = "01-02"
)

// MovementItems are the item names recent movements cycle through.
var MovementItems = []string{"Beras 500g", "Sereal A", "Oat 1kg", "Chia Seed", "Konjac Powder"}

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

var movementTypes = []MovementType{MovementIn, MovementOut, MovementAdjust}

// Stats are the headline counts computed from the store.
type Stats struct {
	TotalItems     int `json:"totalItems"`
	LowStockCount  int `json:"lowStockCount"`
	TotalSuppliers int `json:"totalSuppliers"`
	PendingPOs     int `json:"pendingPOs"`
}

// Movement is one recent stock movement.
type Movement struct {
	ID   string       `json:"id"`
	Item string       `json:"item"`
	Type MovementType `json:"type"`
	Qty  int          `json:"qty"`
	Date string       `json:"date"`
}

// ChartPoint is one day of inbound and outbound quantities.
type ChartPoint struct {
	Date string `json:"date"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
}

// Data is everything the dashboard renders.
type Data struct {
	Stats     Stats        `json:"stats"`
	Movements []Movement   `json:"movements"`
	Chart     []ChartPoint `json:"chart"`
}

// Source exposes the store views the stats are computed from.
type Source interface {
	Snapshot() []inventory.Item
	Suppliers() []inventory.Supplier
}

// Rand is the subset of *rand.Rand the provider draws quantities from.
type Rand interface {
	Intn(n int) int
}

// Provider builds dashboard Data.
type Provider struct {
	source Source
	cache  *querycache.Client
	logger *zap.Logger
	now    func() time.Time

	rngMu sync.Mutex
	rng   Rand
}

// Option configures a Provider.
type Option func(*Provider)

// WithCache reads Data through client under the dashboard namespace. The
// entry is tagged with the inventory and suppliers namespaces so their
// writes invalidate it.
func WithCache(client *querycache.Client) Option {
	return func(p *Provider) {
		p.cache = client
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRand sets the random source for movement and chart quantities.
func WithRand(r Rand) Option {
	return func(p *Provider) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider builds a provider over source.
func NewProvider(source Source, opts ...Option) *Provider {
	p := &Provider{
		source: source,
		logger: zap.NewNop(),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the dashboard data, cached when a cache client is set.
func (p *Provider) Load(ctx context.Context) (Data, error) {
	if p.cache == nil {
		return p.Build(ctx)
	}
	ctx = querycache.WithCacheTags(ctx, querycache.NamespaceInventory, querycache.NamespaceSuppliers)
	return querycache.Read(ctx, p.cache, querycache.NamespaceDashboard, p.Build)
}

// Build computes fresh dashboard data.
func (p *Provider) Build(ctx context.Context) (Data, error) {
	if err := ctx.Err(); err != nil {
		return Data{}, err
	}

	today := p.now()
	data := Data{
		Stats:     p.stats(),
		Movements: p.movements(today),
		Chart:     p.chart(today),
	}
	p.logger.Debug("dashboard built",
		zap.Int("total_items", data.Stats.TotalItems),
		zap.Int("low_stock", data.Stats.LowStockCount),
	)
	return data, nil
}

func (p *Provider) stats() Stats {
	items := p.source.Snapshot()
	low := 0
	for _, it := range items {
		if it.LowStock() {
			low++
		}
	}
	return Stats{
		TotalItems:     len(items),
		LowStockCount:  low,
		TotalSuppliers: len(p.source.Suppliers()),
		PendingPOs:     PendingPOs,
	}
}

// movements lists movementCount entries, newest first, one per day.
func (p *Provider) movements(today time.Time) []Movement {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()

	out := make([]Movement, 0, movementCount)
	for i := 0; i < movementCount; i++ {
		out = append(out, Movement{
			ID:   fmt.Sprintf("mv-%d", i+1),
			Item: MovementItems[i%len(MovementItems)],
			Type: movementTypes[i%len(movementTypes)],
			Qty:  p.rng.Intn(50) + 1,
			Date: today.AddDate(0, 0, -i).Format(movementDate),
		})
	}
	return out
}

// chart covers the last chartDays days, oldest first.
func (p *Provider) chart(today time.Time) []ChartPoint {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()

	out := make([]ChartPoint, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		out = append(out, ChartPoint{
			Date: today.AddDate(0, 0, -i).Format(chartDate),
			In:   p.rng.Intn(40) + 10,
			Out:  p.rng.Intn(30) + 5,
		})
	}
	return out
}
