package memoize

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// waitForInFlight polls until the engine reports n live flights; the claim
// happens on another goroutine, so tests gate on it before proceeding.
func waitForInFlight(t *testing.T, c *Cache, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for c.Info().InFlight != n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d in-flight computations", n)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestCallContext_SingleFlight(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	var calls int32
	release := make(chan struct{})
	slow := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const k = 8
	var g errgroup.Group
	for i := 0; i < k; i++ {
		g.Go(func() error {
			val, err := c.CallContext(context.Background(), slow, "rates", "EUR")
			if err != nil {
				return err
			}
			if val != "shared" {
				return errors.New("unexpected value")
			}
			return nil
		})
	}

	waitForInFlight(t, c, 1)
	close(release)
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "exactly one computation per flight")
	assert.Equal(t, 0, c.Info().InFlight)

	// Post-flight call hits the store.
	val, err := c.CallContext(context.Background(), slow, "rates", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "shared", val)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCallContext_SharedFailure(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	boom := errors.New("boom")
	var calls int32
	release := make(chan struct{})
	failing := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil, boom
	}

	const k = 5
	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		go func() {
			_, err := c.CallContext(context.Background(), failing, "k")
			errs <- err
		}()
	}

	waitForInFlight(t, c, 1)
	close(release)

	for i := 0; i < k; i++ {
		assert.ErrorIs(t, <-errs, boom, "every caller of the flight observes the same failure")
	}

	info := c.Info()
	assert.Equal(t, 0, info.Size, "failures are never cached")
	assert.Equal(t, 0, info.InFlight)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// The failure is not retried by the engine; the next call starts a
	// fresh flight.
	_, err := c.CallContext(context.Background(), func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "ok", nil
	}, "k")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCallContext_HitSkipsFlight(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	var calls int32
	compute := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	_, err := c.CallContext(context.Background(), compute, "answer")
	require.NoError(t, err)

	val, err := c.CallContext(context.Background(), compute, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	info := c.Info()
	assert.EqualValues(t, 1, info.Hits)
	assert.EqualValues(t, 1, info.Misses)
}

func TestInvalidateContext_CancelsLiveFlight(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	release := make(chan struct{})
	var calls int32
	slow := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "late", nil
	}

	ownerDone := make(chan error, 1)
	ownerVal := make(chan any, 1)
	go func() {
		val, err := c.CallContext(context.Background(), slow, "k")
		ownerVal <- val
		ownerDone <- err
	}()

	waitForInFlight(t, c, 1)

	waiterDone := make(chan error, 1)
	go func() {
		_, err := c.CallContext(context.Background(), slow, "k")
		waiterDone <- err
	}()

	// Give the waiter a moment to join the flight, then throw it away.
	time.Sleep(10 * time.Millisecond)
	c.InvalidateContext(context.Background(), "k")

	assert.ErrorIs(t, <-waiterDone, ErrFlightCancelled)
	assert.Equal(t, 0, c.Info().InFlight)

	// The owner is not interrupted; it finishes and keeps its own result,
	// but the thrown-away flight must not populate the store.
	close(release)
	require.NoError(t, <-ownerDone)
	assert.Equal(t, "late", <-ownerVal)
	assert.Equal(t, 0, c.Info().Size)

	_, err := c.CallContext(context.Background(), func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "fresh", nil
	}, "k")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "invalidated key recomputes")
}

func TestClear_CancelsAllFlights(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	release := make(chan struct{})
	slow := func(ctx context.Context) (any, error) {
		<-release
		return "v", nil
	}

	resA := make(chan error, 1)
	resB := make(chan error, 1)
	go func() {
		_, err := c.CallContext(context.Background(), slow, "a")
		resA <- err
	}()
	go func() {
		_, err := c.CallContext(context.Background(), slow, "b")
		resB <- err
	}()

	waitForInFlight(t, c, 2)

	waiter := make(chan error, 1)
	go func() {
		_, err := c.CallContext(context.Background(), slow, "a")
		waiter <- err
	}()
	time.Sleep(10 * time.Millisecond)

	c.Clear()

	assert.ErrorIs(t, <-waiter, ErrFlightCancelled)
	assert.Equal(t, 0, c.Info().InFlight)

	// Clear does not block on the running computations; they finish on
	// their own without repopulating the store.
	close(release)
	require.NoError(t, <-resA)
	require.NoError(t, <-resB)
	assert.Equal(t, 0, c.Info().Size)
}

func TestCallContext_WaiterContextExpiry(t *testing.T) {
	c := newTestCache(t, Config{MaxSize: 8})

	release := make(chan struct{})
	slow := func(ctx context.Context) (any, error) {
		<-release
		return "v", nil
	}

	ownerDone := make(chan error, 1)
	go func() {
		_, err := c.CallContext(context.Background(), slow, "k")
		ownerDone <- err
	}()

	waitForInFlight(t, c, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	_, err := c.CallContext(ctx, slow, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The flight survives the waiter's departure.
	assert.Equal(t, 1, c.Info().InFlight)

	close(release)
	require.NoError(t, <-ownerDone)
	assert.Equal(t, 1, c.Info().Size)
}
