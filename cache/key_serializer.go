package cache

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// MaxInlineText is the longest text segment kept verbatim in a key. Longer
// segments (free text search mostly) are replaced by their xxhash digest.
const MaxInlineText = 64

// namespacedKeySerializer renders namespace::segment::segment keys. Text is
// query-escaped so user input can never produce a separator, which keeps
// namespace prefix matching exact.
type namespacedKeySerializer struct {
	maxInline int
}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &namespacedKeySerializer{maxInline: MaxInlineText}
}

// NamespacePrefix returns the prefix shared by every key of namespace.
func NamespacePrefix(namespace string) string {
	return namespace + KeySeparator
}

// NamespaceOf returns the namespace segment of key.
func NamespaceOf(key string) string {
	if idx := strings.Index(key, KeySeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

// SerializeKey builds a cache key from namespace and args.
func (s *namespacedKeySerializer) SerializeKey(namespace string, args ...any) string {
	if len(args) == 0 {
		return namespace
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, namespace)
	for _, arg := range args {
		parts = append(parts, s.segment(reflect.ValueOf(arg)))
	}
	return strings.Join(parts, KeySeparator)
}

func (s *namespacedKeySerializer) segment(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.segment(rv.Elem())
	case reflect.String:
		return s.text(rv.String())
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(rv.Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = s.segment(rv.Index(i))
		}
		return "[" + strings.Join(items, ",") + "]"
	case reflect.Map:
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, s.segment(iter.Key())+"="+s.segment(iter.Value()))
		}
		sort.Strings(pairs)
		return "{" + strings.Join(pairs, ",") + "}"
	case reflect.Struct:
		rt := rv.Type()
		fields := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, field.Name+"="+s.segment(rv.Field(i)))
		}
		return "{" + strings.Join(fields, ",") + "}"
	default:
		// funcs and channels have no stable value identity
		return rv.Kind().String()
	}
}

func (s *namespacedKeySerializer) text(value string) string {
	if len(value) > s.maxInline {
		return fmt.Sprintf("#%016x", xxhash.Sum64String(value))
	}
	return url.QueryEscape(value)
}
