package memoize

import "github.com/goliatone/go-memoize/internal/flight"

// ErrFlightCancelled is delivered to waiters of an in-flight computation
// that was invalidated or cleared before resolving. It marks "the work was
// thrown away", as opposed to a computation failure, which is always
// propagated verbatim. Match with errors.Is.
var ErrFlightCancelled = flight.ErrCancelled
