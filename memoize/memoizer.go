package memoize

import "context"

// Func is the computation signature for the blocking call path.
type Func func() (any, error)

// ContextFunc is the computation signature for the context call path. The
// function receives the caller's context and may block on it.
type ContextFunc func(ctx context.Context) (any, error)

// KeyNormalizer reduces an argument list to a canonical string key.
// Implementations must be deterministic: structurally equal argument lists
// produce equal keys across calls and across runs.
type KeyNormalizer interface {
	NormalizeKey(args ...any) string
}

// Memoizer is the blocking call surface of a cache engine.
type Memoizer interface {
	Call(fn Func, args ...any) (any, error)
	Invalidate(args ...any)
}

// ContextMemoizer is the single-flight call surface. It is implemented by
// the native engine and by the sturdyc-backed cache, so wrappers in the
// memofunc package can target either backend.
type ContextMemoizer interface {
	CallContext(ctx context.Context, fn ContextFunc, args ...any) (any, error)
	InvalidateContext(ctx context.Context, args ...any)
}
