package sim

import "errors"

// Configuration-time failures. Nothing here is retried: a run that fails
// validation never produces events, and there is no partial-run recovery.
var (
	// ErrInvalidConfig reports a rejected simulation configuration:
	// non-positive capacity or K, MaxK below K, or no active policy.
	ErrInvalidConfig = errors.New("invalid simulation config")

	// ErrInvalidWorkload reports an access sequence that cannot be built:
	// empty or unparseable custom input, an unknown workload kind, or bad
	// generation parameters.
	ErrInvalidWorkload = errors.New("invalid workload")
)
