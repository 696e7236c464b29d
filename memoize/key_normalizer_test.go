package memoize

import (
	"strings"
	"testing"

	"github.com/goliatone/go-memoize/pkg/testsupport"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeyNormalizer_BasicTypes(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "no args",
			args: []any{},
			want: "",
		},
		{
			name: "single int",
			args: []any{42},
			want: "42",
		},
		{
			name: "multiple basic types",
			args: []any{1, "hello", true, 3.14},
			want: joinWithSeparator("1", "hello", "true", "3.14"),
		},
		{
			name: "string with special chars",
			args: []any{"hello:world"},
			want: "hello:world",
		},
		{
			name: "bytes",
			args: []any{[]byte{0xde, 0xad}},
			want: "bytes:dead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := norm.NormalizeKey(tt.args...)
			if got != tt.want {
				t.Errorf("NormalizeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeyNormalizer_NilValues(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "nil interface",
			args: []any{nil},
			want: "nil",
		},
		{
			name: "nil pointer",
			args: []any{(*int)(nil)},
			want: "nil",
		},
		{
			name: "nil slice",
			args: []any{([]int)(nil)},
			want: "slice:nil",
		},
		{
			name: "nil map",
			args: []any{(map[string]int)(nil)},
			want: "map:nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := norm.NormalizeKey(tt.args...)
			if got != tt.want {
				t.Errorf("NormalizeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeyNormalizer_MapOrderInvariance(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	// Both maps are structurally equal; Go map iteration order must never
	// leak into the key.
	m1 := map[string]int{"a": 1, "b": 2}
	m2 := map[string]int{"b": 2, "a": 1}

	k1 := norm.NormalizeKey(m1)
	k2 := norm.NormalizeKey(m2)

	if k1 != k2 {
		t.Errorf("structurally equal maps produced different keys: %q vs %q", k1, k2)
	}
	if want := "map[2]:{a=1,b=2}"; k1 != want {
		t.Errorf("NormalizeKey() = %v, want %v", k1, want)
	}
}

func TestDefaultKeyNormalizer_UnorderedSorting(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	k1 := norm.NormalizeKey(Unordered{1, 2, 3})
	k2 := norm.NormalizeKey(Unordered{3, 2, 1})

	if k1 != k2 {
		t.Errorf("unordered collections produced different keys: %q vs %q", k1, k2)
	}
	if want := "set[3]:{1,2,3}"; k1 != want {
		t.Errorf("NormalizeKey() = %v, want %v", k1, want)
	}
}

func TestDefaultKeyNormalizer_OrderedSequencesKeepOrder(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	k1 := norm.NormalizeKey([]int{1, 2})
	k2 := norm.NormalizeKey([]int{2, 1})

	if k1 == k2 {
		t.Errorf("ordered sequences with different order must not share a key: %q", k1)
	}
	if want := "slice[2]:{1,2}"; k1 != want {
		t.Errorf("NormalizeKey() = %v, want %v", k1, want)
	}
}

func TestDefaultKeyNormalizer_Structs(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	type query struct {
		Term  string
		Limit int
		note  string // unexported, skipped
	}

	got := norm.NormalizeKey(query{Term: "go", Limit: 10, note: "x"})
	want := "struct:{Term:go,Limit:10}"
	if got != want {
		t.Errorf("NormalizeKey() = %v, want %v", got, want)
	}

	// Pointer to struct dereferences to the same key.
	if gotPtr := norm.NormalizeKey(&query{Term: "go", Limit: 10}); gotPtr != want {
		t.Errorf("NormalizeKey(ptr) = %v, want %v", gotPtr, want)
	}
}

func TestDefaultKeyNormalizer_Determinism(t *testing.T) {
	norm := NewDefaultKeyNormalizer()

	args := []any{
		"method",
		map[string]any{"filter": "active", "page": 3},
		Unordered{"z", "a", "m"},
		[]int{5, 4},
	}

	first := norm.NormalizeKey(args...)
	for i := 0; i < 50; i++ {
		if got := norm.NormalizeKey(args...); got != first {
			t.Fatalf("iteration %d produced %q, want %q", i, got, first)
		}
	}
}

// keyScenario represents a normalization scenario loaded from fixtures.
type keyScenario struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cases       []keyCase `json:"cases"`
}

// keyCase represents individual cases within a scenario.
type keyCase struct {
	Args        []interface{} `json:"args"`
	ExpectedKey string        `json:"expectedKey"`
}

type keyFixtures struct {
	Scenarios []keyScenario `json:"scenarios"`
}

func TestDefaultKeyNormalizer_Fixtures(t *testing.T) {
	var fixtures keyFixtures
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("key_scenarios.json"), &fixtures)

	norm := NewDefaultKeyNormalizer()

	for _, scenario := range fixtures.Scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			for i, tc := range scenario.Cases {
				got := norm.NormalizeKey(tc.Args...)
				if got != tc.ExpectedKey {
					t.Errorf("case %d: NormalizeKey(%v) = %q, want %q", i, tc.Args, got, tc.ExpectedKey)
				}
			}
		})
	}
}
