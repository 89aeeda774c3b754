// Defines the error taxonomy for the simulation kernel.
// All of these are fatal to the run they occur in; none are retried.

package sim

import "errors"

var (
	// ErrConfiguration covers invalid scenario parameters: capacities below 1,
	// probabilities outside [0,1], non-positive distribution parameters.
	// Always detected before simulated time advances.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCapacity is returned when a resource pool is constructed with
	// capacity below 1.
	ErrCapacity = errors.New("resource capacity must be at least 1")

	// ErrUnknownResource is returned at pathway validation time when a seize
	// or release step names a resource that does not exist.
	ErrUnknownResource = errors.New("pathway references unknown resource")

	// ErrDegenerateRate is returned by the thinning sampler when the maximum
	// rate over the whole arrival table is zero: the accept step could never
	// succeed and the sampler would loop forever.
	ErrDegenerateRate = errors.New("arrival rate table has zero maximum rate")

	// ErrInvalidTime is returned when an event is scheduled earlier than the
	// current clock. This indicates an internal logic fault, never expected
	// in correct usage.
	ErrInvalidTime = errors.New("cannot schedule event before current clock")
)
