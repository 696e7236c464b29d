// Package di provides dependency injection for the cache engine and its
// collaborators.
package di

import (
	"context"

	"github.com/goliatone/go-memoize/memofunc"
	"github.com/goliatone/go-memoize/memoize"
)

// Container manages singleton instances of the cache engine and key
// normalizer, and provides factory helpers for creating memoized functions
// that share them.
type Container struct {
	cache         *memoize.Cache
	keyNormalizer memoize.KeyNormalizer
	config        memoize.Config
}

// NewContainer creates a new DI container with the provided configuration.
// It constructs the engine once and sets up the default key normalizer for
// consistent key generation across every wrapper built from the container.
func NewContainer(config memoize.Config) (*Container, error) {
	keyNormalizer := config.KeyNormalizer
	if keyNormalizer == nil {
		keyNormalizer = memoize.NewDefaultKeyNormalizer()
		config.KeyNormalizer = keyNormalizer
	}

	cache, err := memoize.New(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		cache:         cache,
		keyNormalizer: keyNormalizer,
		config:        config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(memoize.DefaultConfig())
}

// Cache returns the singleton cache engine instance.
func (c *Container) Cache() *memoize.Cache {
	return c.cache
}

// KeyNormalizer returns the singleton key normalizer instance.
func (c *Container) KeyNormalizer() memoize.KeyNormalizer {
	return c.keyNormalizer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() memoize.Config {
	return c.config
}

// Memoize1 wraps a one-argument callable with the container's engine and
// normalizer.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: di.Memoize1(container, "FetchUser", fetchUser)
func Memoize1[A, R any](c *Container, name string, fn func(A) (R, error)) *memofunc.Wrapped1[A, R] {
	return memofunc.Wrap1(c.cache, c.keyNormalizer, name, fn)
}

// Memoize2 wraps a two-argument callable with the container's engine and
// normalizer.
func Memoize2[A, B, R any](c *Container, name string, fn func(A, B) (R, error)) *memofunc.Wrapped2[A, B, R] {
	return memofunc.Wrap2(c.cache, c.keyNormalizer, name, fn)
}

// MemoizeContext1 wraps a one-argument context callable onto the
// single-flight path of the container's engine.
func MemoizeContext1[A, R any](c *Container, name string, fn func(ctx context.Context, a A) (R, error)) *memofunc.WrappedContext1[A, R] {
	return memofunc.WrapContext1(c.cache, c.keyNormalizer, name, fn)
}

// MemoizeContext2 wraps a two-argument context callable onto the
// single-flight path of the container's engine.
func MemoizeContext2[A, B, R any](c *Container, name string, fn func(ctx context.Context, a A, b B) (R, error)) *memofunc.WrappedContext2[A, B, R] {
	return memofunc.WrapContext2(c.cache, c.keyNormalizer, name, fn)
}
