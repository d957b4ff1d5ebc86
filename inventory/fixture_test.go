package inventory_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-scm-inventory/inventory"
	"github.com/goliatone/go-scm-inventory/pkg/testsupport"
)

func TestQuery_FixtureSearch(t *testing.T) {
	items := testsupport.LoadItems(t, testsupport.FixturePath("items.json"))

	tests := []struct {
		name      string
		key       inventory.QueryKey
		wantIDs   []string
		wantTotal int
	}{
		{name: "case insensitive", key: inventory.NewQueryKey(1, 10, "beras", ""), wantIDs: []string{"it-1", "it-7"}, wantTotal: 2},
		{name: "substring", key: inventory.NewQueryKey(1, 10, "sereal", ""), wantIDs: []string{"it-2", "it-6"}, wantTotal: 2},
		{name: "search and category", key: inventory.NewQueryKey(1, 10, "sereal", "Kemasan"), wantIDs: []string{"it-6"}, wantTotal: 1},
		{name: "category page 2", key: inventory.NewQueryKey(2, 2, "", "Bahan Baku"), wantIDs: []string{"it-4", "it-7"}, wantTotal: 4},
		{name: "all sentinel", key: inventory.NewQueryKey(1, 3, "", inventory.CategoryAll), wantIDs: []string{"it-1", "it-2", "it-3"}, wantTotal: 7},
		{name: "no match", key: inventory.NewQueryKey(1, 10, "gula", ""), wantIDs: nil, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := inventory.Query(items, tt.key)
			if page.Total != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, page.Total)
			}
			if len(page.Items) != len(tt.wantIDs) {
				t.Fatalf("expected %v, got %+v", tt.wantIDs, page.Items)
			}
			for i, id := range tt.wantIDs {
				if page.Items[i].ID != id {
					t.Errorf("item %d: expected %s, got %s", i, id, page.Items[i].ID)
				}
			}
		})
	}
}

func TestService_FixtureLowStockAfterUpdate(t *testing.T) {
	store := testsupport.NewFixtureStore(t, testsupport.FixturePath("items.json"))
	svc := inventory.NewService(store)
	ctx := context.Background()

	low := func() int {
		n := 0
		for _, it := range store.Snapshot() {
			if it.LowStock() {
				n++
			}
		}
		return n
	}

	if got := low(); got != 3 {
		t.Fatalf("expected 3 low stock items in the fixture, got %d", got)
	}

	stock := 25
	if _, err := svc.UpdateItem(ctx, "it-7", inventory.ItemPatch{Stock: &stock}); err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}
	if got := low(); got != 2 {
		t.Errorf("expected 2 low stock items after restocking, got %d", got)
	}

	created, err := svc.CreateItem(ctx, inventory.ItemInput{
		Name: "Gula Aren", Category: "Bahan Baku", Unit: inventory.UnitPieces,
		Stock: 1, MinimumStock: 10, SupplierID: "sup-3",
	})
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}
	if created.ID != "new-1" {
		t.Errorf("expected sequential id new-1, got %s", created.ID)
	}
	if got := low(); got != 3 {
		t.Errorf("expected 3 low stock items after create, got %d", got)
	}
}
