package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for simulation operations.
var (
	// ErrDimensionMismatch indicates mismatched state/control/derivative lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrInvalidTimeStep indicates a non-positive (or non-finite) time step.
	ErrInvalidTimeStep = errors.New("dynamo: time step must be positive")

	// ErrUninitializedReference indicates a controller was asked for an
	// output before any reference was set.
	ErrUninitializedReference = errors.New("dynamo: reference not set")

	// ErrInvalidState indicates a state vector with NaN/Inf or an unusable
	// attitude quaternion.
	ErrInvalidState = errors.New("dynamo: invalid state")

	// ErrUnstable indicates the simulation left its configured bound.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// CheckDim returns ErrDimensionMismatch wrapped with context when got != want.
func CheckDim(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has length %d, want %d", ErrDimensionMismatch, what, got, want)
	}
	return nil
}

// CheckStep validates a time step.
func CheckStep(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidTimeStep, dt)
	}
	return nil
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
