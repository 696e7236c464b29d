// Package memoize provides a concurrency-safe memoizing cache engine with
// LRU eviction, lazy TTL expiry, and single-flight deduplication.
//
// # Overview
//
// The package exports one engine and two call surfaces:
//
//   - Cache: the native engine, a bounded LRU store with hit/miss counters
//     and an in-flight registry
//   - Memoizer / ContextMemoizer: the blocking and single-flight call
//     surfaces, the latter also implemented by the sturdyc-backed cache
//
// A call enters with a function and its arguments; the arguments are
// normalized into a canonical key, the store is consulted, and on a miss
// the function computes the value, which is stored for later callers.
//
// # Basic Usage
//
//	cache, err := memoize.New(memoize.Config{MaxSize: 512, TTL: time.Minute})
//	if err != nil {
//		return err
//	}
//
//	val, err := cache.Call(func() (any, error) {
//		return loadProfile(userID)
//	}, "profile", userID)
//
// On the context path, concurrent callers with equal arguments share one
// computation:
//
//	val, err := cache.CallContext(ctx, func(ctx context.Context) (any, error) {
//		return fetchRates(ctx, base)
//	}, "rates", base)
//
// # Choosing a call path
//
// Call never deduplicates: two goroutines missing on the same key both
// compute. That keeps the blocking path free of coordination and is the
// right trade when computations are cheap or callers rarely collide.
// CallContext guarantees exactly one computation per key per flight, at the
// cost of waiters suspending on the shared result.
//
// # Key Normalization Strategy
//
// The default normalizer uses reflection over a closed set of shapes:
//
//   - Basic types: direct string representation
//   - Slices/arrays: recursive, order-preserving
//   - Unordered: elements sorted, so element order never affects the key
//   - Maps: key-value pairs sorted by normalized key
//   - Structs: exported fields with name:value pairs
//   - Function pointers: %p formatting, stable only within a process
//   - Everything else: JSON fallback, then type information
//
// Two distinct values with identical normalized text collide; supply a
// custom KeyNormalizer through Config when that matters.
//
// # Concurrency
//
// One mutex guards the store, the in-flight registry, and the counters.
// Critical sections are short and never run user code; computations always
// execute outside the lock. Waiting on a flight happens on the shared cell,
// not the lock, so a slow computation never stalls unrelated keys.
//
// # Management
//
// Invalidate removes a single entry; InvalidateContext additionally cancels
// a live flight, delivering ErrFlightCancelled to its waiters. Clear empties
// the store, zeroes the counters, and cancels all flights without waiting
// for the underlying computations to finish. Info returns a locked snapshot
// of counters and occupancy.
//
// # See Also
//
// For wrapping plain functions into memoized ones, see the memofunc
// package. For dependency injection setup, see the pkg/di package.
package memoize
