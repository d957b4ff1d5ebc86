package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFixtureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"name":"Beras 500g","stock":120}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var got struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	LoadFixtureJSON(t, path, &got)

	if got.Name != "Beras 500g" || got.Stock != 120 {
		t.Errorf("unexpected fixture contents %+v", got)
	}
}

func TestCompareWithGolden_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.json")

	CompareWithGoldenJSON(t, path, map[string]int{"total": 28})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected golden file to be created: %v", err)
	}
	if string(data) != "{\n  \"total\": 28\n}\n" {
		t.Errorf("unexpected golden contents %q", data)
	}

	// comparing again against the created file must pass
	CompareWithGoldenJSON(t, path, map[string]int{"total": 28})
}

func TestPaths(t *testing.T) {
	if got := FixturePath("items.json"); got != filepath.Join("testdata", "items.json") {
		t.Errorf("unexpected fixture path %q", got)
	}
	if got := GoldenPath("dashboard.json"); got != filepath.Join("testdata", "golden", "dashboard.json") {
		t.Errorf("unexpected golden path %q", got)
	}
}

func TestLoadItems(t *testing.T) {
	items := LoadItems(t, FixturePath("items.json"))
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	if items[0].ID != "it-1" || items[0].Name != "Beras 500g" || items[0].MinimumStock != 20 {
		t.Errorf("unexpected first item %+v", items[0])
	}
}

func TestNewFixtureStore(t *testing.T) {
	store := NewFixtureStore(t, FixturePath("items.json"))

	if store.Len() != 7 {
		t.Fatalf("expected 7 items, got %d", store.Len())
	}
	if len(store.Categories()) != 4 || len(store.Suppliers()) != 3 {
		t.Errorf("expected default reference data")
	}
}

func TestNewSeededStore(t *testing.T) {
	a := NewSeededStore(28).Snapshot()
	b := NewSeededStore(28).Snapshot()

	if len(a) != 28 {
		t.Fatalf("expected 28 items, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected seeded stores to match, item %d differs", i)
		}
	}
	if a[0].ID != "it-1" || a[27].ID != "it-28" {
		t.Errorf("expected sequential ids, got %s..%s", a[0].ID, a[27].ID)
	}
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start)
	c.Advance(90 * time.Minute)
	if got := c.Now().Sub(start); got != 90*time.Minute {
		t.Errorf("expected 90m, got %v", got)
	}
}
