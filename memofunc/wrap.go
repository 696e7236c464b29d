package memofunc

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-memoize/memoize"
)

// ErrInvalidResultType indicates the cached value did not match the
// wrapper's result type. This can only happen when two wrappers share a
// name and an engine but disagree on the result type.
var ErrInvalidResultType = errors.New("memofunc: cached value has unexpected type")

// Wrapped1 memoizes a one-argument callable on the blocking path.
type Wrapped1[A, R any] struct {
	name  string
	cache memoize.Memoizer
	norm  memoize.KeyNormalizer
	fn    func(A) (R, error)
	seen  *xsync.MapOf[string, A]
}

// Wrap1 adapts fn so every call is routed through cache. The normalizer
// must be the one the engine derives keys with, so the wrapper's key
// registry stays aligned with the store; nil selects the default.
func Wrap1[A, R any](cache memoize.Memoizer, norm memoize.KeyNormalizer, name string, fn func(A) (R, error)) *Wrapped1[A, R] {
	if norm == nil {
		norm = memoize.NewDefaultKeyNormalizer()
	}
	return &Wrapped1[A, R]{
		name:  name,
		cache: cache,
		norm:  norm,
		fn:    fn,
		seen:  xsync.NewMapOf[string, A](),
	}
}

// Call invokes the wrapped callable through the cache.
func (w *Wrapped1[A, R]) Call(a A) (R, error) {
	w.seen.Store(w.norm.NormalizeKey(w.name, a), a)

	res, err := w.cache.Call(func() (any, error) {
		return w.fn(a)
	}, w.name, a)

	return assertResult[R](res, err)
}

// Invalidate drops the entry for the given argument.
func (w *Wrapped1[A, R]) Invalidate(a A) {
	w.seen.Delete(w.norm.NormalizeKey(w.name, a))
	w.cache.Invalidate(w.name, a)
}

// Forget drops every entry this wrapper produced, leaving other users of
// the shared engine untouched.
func (w *Wrapped1[A, R]) Forget() {
	w.seen.Range(func(key string, a A) bool {
		w.cache.Invalidate(w.name, a)
		w.seen.Delete(key)
		return true
	})
}

// Wrapped2 memoizes a two-argument callable on the blocking path.
type Wrapped2[A, B, R any] struct {
	name  string
	cache memoize.Memoizer
	norm  memoize.KeyNormalizer
	fn    func(A, B) (R, error)
	seen  *xsync.MapOf[string, [2]any]
}

// Wrap2 adapts a two-argument fn so every call is routed through cache.
func Wrap2[A, B, R any](cache memoize.Memoizer, norm memoize.KeyNormalizer, name string, fn func(A, B) (R, error)) *Wrapped2[A, B, R] {
	if norm == nil {
		norm = memoize.NewDefaultKeyNormalizer()
	}
	return &Wrapped2[A, B, R]{
		name:  name,
		cache: cache,
		norm:  norm,
		fn:    fn,
		seen:  xsync.NewMapOf[string, [2]any](),
	}
}

// Call invokes the wrapped callable through the cache.
func (w *Wrapped2[A, B, R]) Call(a A, b B) (R, error) {
	w.seen.Store(w.norm.NormalizeKey(w.name, a, b), [2]any{a, b})

	res, err := w.cache.Call(func() (any, error) {
		return w.fn(a, b)
	}, w.name, a, b)

	return assertResult[R](res, err)
}

// Invalidate drops the entry for the given arguments.
func (w *Wrapped2[A, B, R]) Invalidate(a A, b B) {
	w.seen.Delete(w.norm.NormalizeKey(w.name, a, b))
	w.cache.Invalidate(w.name, a, b)
}

// Forget drops every entry this wrapper produced.
func (w *Wrapped2[A, B, R]) Forget() {
	w.seen.Range(func(key string, args [2]any) bool {
		w.cache.Invalidate(w.name, args[0], args[1])
		w.seen.Delete(key)
		return true
	})
}

// WrappedContext1 memoizes a one-argument callable on the single-flight
// context path.
type WrappedContext1[A, R any] struct {
	name  string
	cache memoize.ContextMemoizer
	norm  memoize.KeyNormalizer
	fn    func(context.Context, A) (R, error)
	seen  *xsync.MapOf[string, A]
}

// WrapContext1 adapts fn so concurrent calls with equal arguments share a
// single computation. The cache may be the native engine or the sturdyc
// backend.
func WrapContext1[A, R any](cache memoize.ContextMemoizer, norm memoize.KeyNormalizer, name string, fn func(context.Context, A) (R, error)) *WrappedContext1[A, R] {
	if norm == nil {
		norm = memoize.NewDefaultKeyNormalizer()
	}
	return &WrappedContext1[A, R]{
		name:  name,
		cache: cache,
		norm:  norm,
		fn:    fn,
		seen:  xsync.NewMapOf[string, A](),
	}
}

// Call invokes the wrapped callable through the cache.
func (w *WrappedContext1[A, R]) Call(ctx context.Context, a A) (R, error) {
	w.seen.Store(w.norm.NormalizeKey(w.name, a), a)

	res, err := w.cache.CallContext(ctx, func(ctx context.Context) (any, error) {
		return w.fn(ctx, a)
	}, w.name, a)

	return assertResult[R](res, err)
}

// Invalidate drops the entry for the given argument and cancels a live
// flight for it.
func (w *WrappedContext1[A, R]) Invalidate(ctx context.Context, a A) {
	w.seen.Delete(w.norm.NormalizeKey(w.name, a))
	w.cache.InvalidateContext(ctx, w.name, a)
}

// Forget drops every entry this wrapper produced.
func (w *WrappedContext1[A, R]) Forget(ctx context.Context) {
	w.seen.Range(func(key string, a A) bool {
		w.cache.InvalidateContext(ctx, w.name, a)
		w.seen.Delete(key)
		return true
	})
}

// WrappedContext2 memoizes a two-argument callable on the single-flight
// context path.
type WrappedContext2[A, B, R any] struct {
	name  string
	cache memoize.ContextMemoizer
	norm  memoize.KeyNormalizer
	fn    func(context.Context, A, B) (R, error)
	seen  *xsync.MapOf[string, [2]any]
}

// WrapContext2 adapts a two-argument fn onto the single-flight path.
func WrapContext2[A, B, R any](cache memoize.ContextMemoizer, norm memoize.KeyNormalizer, name string, fn func(context.Context, A, B) (R, error)) *WrappedContext2[A, B, R] {
	if norm == nil {
		norm = memoize.NewDefaultKeyNormalizer()
	}
	return &WrappedContext2[A, B, R]{
		name:  name,
		cache: cache,
		norm:  norm,
		fn:    fn,
		seen:  xsync.NewMapOf[string, [2]any](),
	}
}

// Call invokes the wrapped callable through the cache.
func (w *WrappedContext2[A, B, R]) Call(ctx context.Context, a A, b B) (R, error) {
	w.seen.Store(w.norm.NormalizeKey(w.name, a, b), [2]any{a, b})

	res, err := w.cache.CallContext(ctx, func(ctx context.Context) (any, error) {
		return w.fn(ctx, a, b)
	}, w.name, a, b)

	return assertResult[R](res, err)
}

// Invalidate drops the entry for the given arguments and cancels a live
// flight for them.
func (w *WrappedContext2[A, B, R]) Invalidate(ctx context.Context, a A, b B) {
	w.seen.Delete(w.norm.NormalizeKey(w.name, a, b))
	w.cache.InvalidateContext(ctx, w.name, a, b)
}

// Forget drops every entry this wrapper produced.
func (w *WrappedContext2[A, B, R]) Forget(ctx context.Context) {
	w.seen.Range(func(key string, args [2]any) bool {
		w.cache.InvalidateContext(ctx, w.name, args[0], args[1])
		w.seen.Delete(key)
		return true
	})
}

// assertResult narrows the engine's any-typed result back to R. A nil
// result maps to R's zero value so interface and pointer results survive
// the round trip.
func assertResult[R any](res any, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	out, ok := res.(R)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return out, nil
}
