// Package memofunc adapts plain callables into memoized ones.
//
// # Overview
//
// This package implements the decorator pattern over a cache engine from
// the memoize package: a wrapped function is called exactly like the
// original, with every invocation transparently routed through the cache.
// Wrappers are a convenience facade; all caching semantics live in the
// engine they delegate to.
//
// # Key Features
//
//   - **Type-safe wrapping**: Go generics preserve the callable's argument
//     and result types end to end
//   - **Two call paths**: Wrap1/Wrap2 ride the blocking path, and
//     WrapContext1/WrapContext2 the single-flight context path
//   - **Pluggable backends**: context wrappers accept any ContextMemoizer,
//     so the native engine and the sturdyc backend are interchangeable
//   - **Key tracking**: each wrapper records the keys it produced, enabling
//     Forget to drop all of its entries without touching other callers of
//     the shared engine
//
// # Basic Usage
//
//	cache, _ := memoize.New(memoize.DefaultConfig())
//	norm := memoize.NewDefaultKeyNormalizer()
//
//	fetchUser := memofunc.WrapContext1(cache, norm, "FetchUser",
//		func(ctx context.Context, id string) (*User, error) {
//			return client.FetchUser(ctx, id)
//		})
//
//	user, err := fetchUser.Call(ctx, "user-123") // computed once, then cached
//	fetchUser.Invalidate(ctx, "user-123")        // next call recomputes
//
// # Naming
//
// The wrapper name becomes the first key segment, namespacing entries per
// wrapped function. Two wrappers sharing an engine never collide as long as
// their names differ; wrapping the same function under the same name
// deliberately shares its entries.
//
// # Error Handling
//
// Errors from the wrapped callable are propagated unchanged and nothing is
// cached for the failing arguments. A stored value that no longer matches
// the wrapper's result type surfaces as ErrInvalidResultType instead of
// panicking.
package memofunc
