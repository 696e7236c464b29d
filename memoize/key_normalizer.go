package memoize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// Unordered marks a sequence whose element order carries no meaning.
// Elements are normalized individually and then sorted, so Unordered{1, 2}
// and Unordered{2, 1} produce the same key segment. Plain slices and arrays
// keep their order, which stays significant.
type Unordered []any

// defaultKeyNormalizer reduces argument lists to deterministic string keys
// using reflection. It recognizes a closed set of shapes: primitive scalars,
// ordered sequences, Unordered collections, maps, and structs. Anything else
// falls back to JSON and finally to type information, a documented precision
// loss: two distinct values with the same textual form collide.
type defaultKeyNormalizer struct{}

// NewDefaultKeyNormalizer creates a new instance of the default key normalizer.
func NewDefaultKeyNormalizer() KeyNormalizer {
	return &defaultKeyNormalizer{}
}

// NormalizeKey joins the normalized form of each argument with KeySeparator.
// An empty argument list yields the empty key.
func (n *defaultKeyNormalizer) NormalizeKey(args ...any) string {
	if len(args) == 0 {
		return ""
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = n.normalizeValue(arg)
	}

	return strings.Join(parts, KeySeparator)
}

// normalizeValue handles individual argument normalization based on shape.
func (n *defaultKeyNormalizer) normalizeValue(v any) string {
	if v == nil {
		return "nil"
	}

	if u, ok := v.(Unordered); ok {
		return n.normalizeUnordered(u)
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Func:
		// Function identity is only stable within a single process.
		return fmt.Sprintf("func:%p", v)

	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return n.normalizeValue(rv.Elem().Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		if b, ok := v.([]byte); ok {
			return fmt.Sprintf("bytes:%x", b)
		}
		return n.normalizeSequence("slice", rv)

	case reflect.Array:
		return n.normalizeSequence("array", rv)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return n.normalizeMap(rv)

	case reflect.Struct:
		return n.normalizeStruct(rv, rt)

	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)

	case reflect.Interface:
		if rv.IsNil() {
			return "interface:nil"
		}
		return n.normalizeValue(rv.Elem().Interface())
	}

	if isScalarKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return n.jsonFallback(v)
}

// normalizeSequence handles ordered sequences; element order is preserved
// because it is semantically significant.
func (n *defaultKeyNormalizer) normalizeSequence(label string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)

	for i := 0; i < length; i++ {
		parts[i] = n.normalizeValue(rv.Index(i).Interface())
	}

	return fmt.Sprintf("%s[%d]:{%s}", label, length, strings.Join(parts, ","))
}

// normalizeUnordered imposes a deterministic total order on collections
// whose order is not significant.
func (n *defaultKeyNormalizer) normalizeUnordered(u Unordered) string {
	parts := make([]string, len(u))
	for i, elem := range u {
		parts[i] = n.normalizeValue(elem)
	}
	sort.Strings(parts)

	return fmt.Sprintf("set[%d]:{%s}", len(parts), strings.Join(parts, ","))
}

// normalizeMap produces (key, value) pairs sorted by normalized key so that
// map iteration order never leaks into the cache key.
func (n *defaultKeyNormalizer) normalizeMap(rv reflect.Value) string {
	keys := rv.MapKeys()
	pairs := make([]string, len(keys))

	for i, k := range keys {
		keyStr := n.normalizeValue(k.Interface())
		valStr := n.normalizeValue(rv.MapIndex(k).Interface())
		pairs[i] = fmt.Sprintf("%s=%s", keyStr, valStr)
	}
	sort.Strings(pairs)

	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// normalizeStruct walks exported fields in declaration order.
func (n *defaultKeyNormalizer) normalizeStruct(rv reflect.Value, rt reflect.Type) string {
	numFields := rv.NumField()
	parts := make([]string, 0, numFields)

	for i := 0; i < numFields; i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldValue := rv.Field(i)
		if !fieldValue.CanInterface() {
			continue
		}

		parts = append(parts, fmt.Sprintf("%s:%s", field.Name, n.normalizeValue(fieldValue.Interface())))
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

// isScalarKind checks if a kind represents a primitive scalar.
func isScalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization as a last resort.
func (n *defaultKeyNormalizer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Not even JSON-serializable; fall back to type information so the
		// key stays total, accepting collisions between values of the type.
		return fmt.Sprintf("fallback:%s", reflect.TypeOf(v).String())
	}
	return fmt.Sprintf("json:%s", string(data))
}
