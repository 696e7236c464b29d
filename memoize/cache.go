package memoize

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-memoize/internal/flight"
	"github.com/goliatone/go-memoize/internal/lrustore"
	"github.com/goliatone/go-memoize/internal/telemetry"
)

// Cache memoizes computations keyed by their normalized arguments. It holds
// a bounded LRU store with optional lazy TTL expiry, a single-flight
// registry for the context path, and hit/miss counters.
//
// One mutex guards the store, the in-flight registry, and the counters, so
// both call paths are serialized against the same state. User computations
// always run outside the lock; critical sections never block on user code.
//
// A Cache is safe for concurrent use. Construct it once and share it; it is
// never resized.
type Cache struct {
	mu      sync.Mutex
	store   *lrustore.Store
	flights map[string]*flight.Cell

	norm    KeyNormalizer
	maxSize int
	ttl     time.Duration

	hits   uint64
	misses uint64

	// nowFn is swapped in TTL tests for deterministic clock control.
	nowFn func() time.Time

	metrics *telemetry.Instruments
}

// Info is a point-in-time snapshot of the engine's observable state. The
// in-flight count can be briefly stale relative to concurrent activity; it
// is observational only.
type Info struct {
	Hits     uint64
	Misses   uint64
	Size     int
	MaxSize  int
	TTL      time.Duration
	InFlight int
}

// New constructs a cache engine from the provided configuration. It fails
// when the configuration is invalid, in particular for a non-positive
// MaxSize.
func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	norm := cfg.KeyNormalizer
	if norm == nil {
		norm = NewDefaultKeyNormalizer()
	}

	c := &Cache{
		store:   lrustore.New(cfg.MaxSize, cfg.TTL),
		flights: make(map[string]*flight.Cell),
		norm:    norm,
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		nowFn:   time.Now,
	}

	if cfg.EnableMetrics {
		c.metrics = telemetry.New()
	}

	return c, nil
}

// Call runs fn through the cache on the blocking path: a fresh hit for the
// normalized args returns the stored value, a miss computes outside the
// lock and stores the result.
//
// This path does not deduplicate: two concurrent callers for the same key
// may both miss and both compute. That trade keeps the hit path free of
// coordination; use CallContext when concurrent callers should share one
// computation.
//
// A failing fn propagates its error verbatim and writes nothing.
func (c *Cache) Call(fn Func, args ...any) (any, error) {
	key := c.norm.NormalizeKey(args...)

	c.mu.Lock()
	if val, ok := c.store.Get(key, c.nowFn()); ok {
		c.hits++
		c.mu.Unlock()
		c.metrics.Hit(context.Background())
		return val, nil
	}
	c.misses++
	c.mu.Unlock()
	c.metrics.Miss(context.Background())

	val, err := fn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	evicted := c.store.Put(key, val, c.nowFn())
	c.mu.Unlock()
	if evicted {
		c.metrics.Eviction(context.Background())
	}

	return val, nil
}

// CallContext runs fn through the cache with single-flight deduplication:
// while a computation for the key is in flight, further callers do not
// start a second one but wait on the shared flight cell and receive its
// outcome, value or failure alike.
//
// The caller that claims the flight runs fn with its own ctx. Waiters whose
// ctx expires detach with ctx.Err(); the flight keeps running for everyone
// else. If the flight is invalidated or cleared mid-computation, waiters
// observe ErrFlightCancelled while the owner still returns its own result.
func (c *Cache) CallContext(ctx context.Context, fn ContextFunc, args ...any) (any, error) {
	key := c.norm.NormalizeKey(args...)

	c.mu.Lock()
	if val, ok := c.store.Get(key, c.nowFn()); ok {
		c.hits++
		c.mu.Unlock()
		c.metrics.Hit(ctx)
		return val, nil
	}

	if cell, ok := c.flights[key]; ok {
		// Join the live flight. The wait happens outside the lock; the lock
		// only guards registry membership, never the computation.
		c.mu.Unlock()
		return cell.Wait(ctx)
	}

	c.misses++
	cell := flight.NewCell()
	c.flights[key] = cell
	c.mu.Unlock()
	c.metrics.Miss(ctx)
	c.metrics.FlightStarted(ctx)

	val, err := fn(ctx)

	c.mu.Lock()
	// The flight may have been cancelled while fn ran, in which case the
	// registry entry is gone (or replaced) and the store must stay
	// untouched: invalidation means the result was thrown away.
	owned := c.flights[key] == cell
	if owned {
		delete(c.flights, key)
	}

	if err != nil {
		if owned {
			cell.Reject(err)
		}
		c.mu.Unlock()
		if owned {
			c.metrics.FlightSettled(ctx)
		}
		return nil, err
	}

	var evicted bool
	if owned {
		// Resolution and deregistration happen inside the same critical
		// section, so a caller either joins this flight or sees the stored
		// entry, never neither.
		evicted = c.store.Put(key, val, c.nowFn())
		cell.Resolve(val)
	}
	c.mu.Unlock()

	if owned {
		c.metrics.FlightSettled(ctx)
	}
	if evicted {
		c.metrics.Eviction(ctx)
	}

	return val, nil
}

// Invalidate removes the store entry for the normalized args. It has no
// effect when the entry is absent and does not touch in-flight
// computations; use InvalidateContext for that.
func (c *Cache) Invalidate(args ...any) {
	key := c.norm.NormalizeKey(args...)

	c.mu.Lock()
	c.store.Remove(key)
	c.mu.Unlock()
}

// InvalidateContext removes the store entry for the normalized args and
// cancels a live flight for the key: current waiters observe
// ErrFlightCancelled and late callers start a fresh computation.
func (c *Cache) InvalidateContext(ctx context.Context, args ...any) {
	key := c.norm.NormalizeKey(args...)

	c.mu.Lock()
	c.store.Remove(key)
	cell, ok := c.flights[key]
	if ok {
		delete(c.flights, key)
		cell.Cancel()
	}
	c.mu.Unlock()

	if ok {
		c.metrics.FlightSettled(ctx)
	}
}

// Clear empties the store, resets the hit/miss counters, and cancels every
// live flight. Cancellation only settles the shared cells; computations
// already running are not interrupted and Clear does not wait for them.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.store.Clear()
	c.hits = 0
	c.misses = 0

	settled := len(c.flights)
	for key, cell := range c.flights {
		delete(c.flights, key)
		cell.Cancel()
	}
	c.mu.Unlock()

	for i := 0; i < settled; i++ {
		c.metrics.FlightSettled(context.Background())
	}
}

// Info returns a snapshot of counters, occupancy, and configuration, taken
// under the engine lock.
func (c *Cache) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Info{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     c.store.Len(),
		MaxSize:  c.maxSize,
		TTL:      c.ttl,
		InFlight: len(c.flights),
	}
}

// interface conformance
var (
	_ Memoizer        = (*Cache)(nil)
	_ ContextMemoizer = (*Cache)(nil)
)
