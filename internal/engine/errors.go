package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestep is returned by Step for a zero, negative or
	// non-finite dt.
	ErrInvalidTimestep = errors.New("engine: timestep must be positive and finite")

	// ErrUnknownModel indicates an interaction model name with no factory.
	ErrUnknownModel = errors.New("engine: unknown interaction model")

	// ErrUnstable indicates a particle reached a NaN or Inf state.
	ErrUnstable = errors.New("engine: simulation unstable (non-finite particle state)")
)

// StepError wraps a failure with the step at which it happened.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
