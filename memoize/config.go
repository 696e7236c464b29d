package memoize

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config exposes the engine configuration. The engine is constructed once
// with a fixed capacity and TTL and never resized afterward.
type Config struct {
	// MaxSize is the maximum number of entries the store holds before the
	// least-recently-used entry is evicted. Must be greater than 0.
	MaxSize int

	// TTL is the time-to-live for stored entries. Entries whose age reaches
	// the TTL are treated as absent and removed on the next access; there is
	// no background sweeper. Zero disables expiry.
	TTL time.Duration

	// KeyNormalizer overrides the default reflection-based normalizer.
	// Nil selects NewDefaultKeyNormalizer().
	KeyNormalizer KeyNormalizer

	// EnableMetrics registers OpenTelemetry counters for hits, misses,
	// evictions, and in-flight computations on the global meter provider.
	EnableMetrics bool
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize: 128,
		TTL:     0,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxSize, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	)
}
