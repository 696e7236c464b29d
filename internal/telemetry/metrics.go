// Package telemetry holds the OpenTelemetry metric instruments the engine
// records against. Instruments come from the global meter provider; hosts
// that never install one get the default no-op provider, so recording is
// always safe.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/goliatone/go-memoize"

// Instruments bundles the engine's metric instruments. A nil *Instruments
// is a valid no-op receiver, which is how metrics stay disabled by default.
type Instruments struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	inflight  metric.Int64UpDownCounter
}

// New creates the instrument set on the global meter provider.
func New() *Instruments {
	meter := otel.Meter(instrumentationName)

	ins := &Instruments{}
	var err error

	ins.hits, err = meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Number of lookups answered from the store"),
	)
	if err != nil {
		otel.Handle(err)
	}

	ins.misses, err = meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Number of lookups that triggered a computation"),
	)
	if err != nil {
		otel.Handle(err)
	}

	ins.evictions, err = meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Number of entries evicted to enforce capacity"),
	)
	if err != nil {
		otel.Handle(err)
	}

	ins.inflight, err = meter.Int64UpDownCounter(
		"cache.inflight",
		metric.WithDescription("Number of computations currently in flight"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return ins
}

// Hit records a store hit.
func (i *Instruments) Hit(ctx context.Context) {
	if i == nil {
		return
	}
	i.hits.Add(ctx, 1)
}

// Miss records a store miss.
func (i *Instruments) Miss(ctx context.Context) {
	if i == nil {
		return
	}
	i.misses.Add(ctx, 1)
}

// Eviction records a capacity eviction.
func (i *Instruments) Eviction(ctx context.Context) {
	if i == nil {
		return
	}
	i.evictions.Add(ctx, 1)
}

// FlightStarted records a computation entering the in-flight registry.
func (i *Instruments) FlightStarted(ctx context.Context) {
	if i == nil {
		return
	}
	i.inflight.Add(ctx, 1)
}

// FlightSettled records a computation leaving the in-flight registry.
func (i *Instruments) FlightSettled(ctx context.Context) {
	if i == nil {
		return
	}
	i.inflight.Add(ctx, -1)
}
