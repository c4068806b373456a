package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for batched simulation operations.
var (
	// ErrInvalidTimestep indicates a non-positive dt at integrator construction.
	ErrInvalidTimestep = errors.New("crvdo: timestep must be positive")

	// ErrBatchMismatch indicates state/params/control batches of differing length.
	ErrBatchMismatch = errors.New("crvdo: state, params and control batches must have equal length")

	// ErrEmptyBatch indicates a zero-length batch passed to an operation requiring rows.
	ErrEmptyBatch = errors.New("crvdo: batch must contain at least one oscillator")

	// ErrInvalidState indicates a state batch containing NaN or Inf components.
	ErrInvalidState = errors.New("crvdo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("crvdo: run canceled by context")
)

// SimulationError wraps an error with step context from the run loop.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
