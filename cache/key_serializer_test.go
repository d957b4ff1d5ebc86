package cache

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
)

type testQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
	internal string
}

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{
			name:      "no args",
			namespace: "suppliers",
			args:      []any{},
			want:      "suppliers",
		},
		{
			name:      "single int",
			namespace: "inventory",
			args:      []any{42},
			want:      joinWithSeparator("inventory", "42"),
		},
		{
			name:      "multiple basic types",
			namespace: "inventory",
			args:      []any{1, "hello", true, 3.14},
			want:      joinWithSeparator("inventory", "1", "hello", "true", "3.14"),
		},
		{
			name:      "separator in text is escaped",
			namespace: "inventory",
			args:      []any{"hello::world"},
			want:      joinWithSeparator("inventory", "hello%3A%3Aworld"),
		},
		{
			name:      "spaces and punctuation",
			namespace: "inventory",
			args:      []any{"a b,c=d"},
			want:      joinWithSeparator("inventory", "a+b%2Cc%3Dd"),
		},
		{
			name:      "empty string keeps its slot",
			namespace: "inventory",
			args:      []any{"", 2},
			want:      joinWithSeparator("inventory", "", "2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_NilValues(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{name: "nil interface", args: []any{nil}, want: joinWithSeparator("ns", "nil")},
		{name: "nil pointer", args: []any{(*int)(nil)}, want: joinWithSeparator("ns", "nil")},
		{name: "nil slice", args: []any{([]int)(nil)}, want: joinWithSeparator("ns", "[]")},
		{name: "nil map", args: []any{(map[string]int)(nil)}, want: joinWithSeparator("ns", "{}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("ns", tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Structs(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	q := testQuery{Page: 2, PageSize: 8, Search: "Item 1", Category: "Kemasan", internal: "ignored"}
	got := serializer.SerializeKey("inventory", q)
	want := joinWithSeparator("inventory", "{Page=2,PageSize=8,Search=Item+1,Category=Kemasan}")
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}

	if ptr := serializer.SerializeKey("inventory", &q); ptr != got {
		t.Errorf("expected pointer and value to serialize the same, got %q and %q", ptr, got)
	}
}

func TestDefaultKeySerializer_Deterministic(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	m := map[string]int{"b": 2, "a": 1, "c": 3}
	first := serializer.SerializeKey("ns", m)
	for i := 0; i < 20; i++ {
		if got := serializer.SerializeKey("ns", m); got != first {
			t.Fatalf("map serialization is not deterministic: %q vs %q", got, first)
		}
	}
	if want := joinWithSeparator("ns", "{a=1,b=2,c=3}"); first != want {
		t.Errorf("SerializeKey() = %v, want %v", first, want)
	}

	slice := serializer.SerializeKey("ns", []string{"x", "y"})
	if want := joinWithSeparator("ns", "[x,y]"); slice != want {
		t.Errorf("SerializeKey() = %v, want %v", slice, want)
	}
}

func TestDefaultKeySerializer_DistinctQueries(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	a := serializer.SerializeKey("inventory", testQuery{Page: 1, PageSize: 8})
	b := serializer.SerializeKey("inventory", testQuery{Page: 1, PageSize: 8, Category: "Lainnya"})
	c := serializer.SerializeKey("inventory", testQuery{Page: 1, PageSize: 8, Search: "Category=Lainnya"})

	if a == b || b == c || a == c {
		t.Errorf("expected distinct keys, got %q, %q, %q", a, b, c)
	}
}

func TestDefaultKeySerializer_LongTextDigest(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	long := strings.Repeat("x", MaxInlineText+1)
	got := serializer.SerializeKey("inventory", long)
	want := joinWithSeparator("inventory", fmt.Sprintf("#%016x", xxhash.Sum64String(long)))
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}

	exact := strings.Repeat("y", MaxInlineText)
	if got := serializer.SerializeKey("inventory", exact); got != joinWithSeparator("inventory", exact) {
		t.Errorf("expected text of length %d to stay inline, got %q", MaxInlineText, got)
	}
}

func TestNamespaceHelpers(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	key := serializer.SerializeKey("inventory", 1, 8)

	if !strings.HasPrefix(key, NamespacePrefix("inventory")) {
		t.Errorf("expected %q to start with the inventory prefix", key)
	}
	if strings.HasPrefix(key, NamespacePrefix("inv")) {
		t.Errorf("expected %q not to match a shorter namespace", key)
	}
	if got := NamespaceOf(key); got != "inventory" {
		t.Errorf("NamespaceOf() = %q, want inventory", got)
	}
	if got := NamespaceOf("suppliers"); got != "suppliers" {
		t.Errorf("NamespaceOf() = %q, want suppliers", got)
	}
}
