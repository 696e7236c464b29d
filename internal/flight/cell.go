// Package flight provides the one-shot broadcast result cell used to share a
// single in-flight computation between concurrent callers.
//
// A Cell settles exactly once, with a value, a failure, or a cancellation.
// Any number of waiters may attach before or after settling; all of them
// observe the identical outcome. This is the coordination primitive behind
// the cache's single-flight guarantee.
package flight

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is the outcome delivered to waiters when a flight is thrown
// away (key invalidation or a full clear) before it resolves. It is distinct
// from a computation failure so callers can tell the two apart.
var ErrCancelled = errors.New("flight: computation cancelled")

// Cell is a single-resolution future. The zero value is not usable; create
// cells with NewCell.
type Cell struct {
	done chan struct{}
	once sync.Once

	val any
	err error
}

// NewCell returns an unsettled cell.
func NewCell() *Cell {
	return &Cell{done: make(chan struct{})}
}

// Resolve settles the cell with a value. Later settle attempts are no-ops.
func (c *Cell) Resolve(val any) {
	c.once.Do(func() {
		c.val = val
		close(c.done)
	})
}

// Reject settles the cell with a failure.
func (c *Cell) Reject(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Cancel settles the cell with ErrCancelled.
func (c *Cell) Cancel() {
	c.Reject(ErrCancelled)
}

// Wait blocks until the cell settles or ctx is done, whichever happens
// first. A ctx expiry detaches only this waiter; the flight itself keeps
// running and other waiters are unaffected.
func (c *Cell) Wait(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the cell has already been resolved, rejected, or
// cancelled.
func (c *Cell) Settled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
