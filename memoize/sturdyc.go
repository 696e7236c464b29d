package memoize

import (
	"context"
	"time"

	"github.com/goliatone/go-memoize/internal/cacheinfra"
)

// SturdycConfig mirrors the sturdyc backend options.
type SturdycConfig struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *SturdycEarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// SturdycEarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type SturdycEarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultSturdycConfig returns a SturdycConfig populated with the backend defaults.
func DefaultSturdycConfig() SturdycConfig {
	return sturdycFromInternal(cacheinfra.DefaultConfig())
}

// SturdycCache implements the context call surface on top of a sharded
// sturdyc client. It trades the native engine's exact LRU/statistics
// semantics for sturdyc's stampede protection at higher shard counts; hit
// and miss counters are not exposed by this backend.
type SturdycCache struct {
	svc  *cacheinfra.Service
	norm KeyNormalizer
}

// NewSturdycCache constructs the sturdyc-backed cache. The normalizer may
// be nil, selecting the default.
func NewSturdycCache(cfg SturdycConfig, norm KeyNormalizer) (*SturdycCache, error) {
	svc, err := cacheinfra.NewService(cfg.toInternal())
	if err != nil {
		return nil, err
	}

	if norm == nil {
		norm = NewDefaultKeyNormalizer()
	}

	return &SturdycCache{svc: svc, norm: norm}, nil
}

// CallContext routes fn through the sturdyc client's GetOrFetch, which
// deduplicates concurrent calls for the same key.
func (s *SturdycCache) CallContext(ctx context.Context, fn ContextFunc, args ...any) (any, error) {
	key := s.norm.NormalizeKey(args...)
	return s.svc.GetOrFetch(ctx, key, fn)
}

// InvalidateContext removes the entry for the normalized args.
func (s *SturdycCache) InvalidateContext(ctx context.Context, args ...any) {
	s.svc.Delete(s.norm.NormalizeKey(args...))
}

// Size returns the number of resident entries.
func (s *SturdycCache) Size() int {
	return s.svc.Size()
}

var _ ContextMemoizer = (*SturdycCache)(nil)

func (c SturdycConfig) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func sturdycFromInternal(cfg cacheinfra.Config) SturdycConfig {
	var early *SturdycEarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &SturdycEarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return SturdycConfig{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
