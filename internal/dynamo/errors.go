package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidTopology indicates a broken contributor link, such as a spring
	// queried without both endpoints or with a particle it does not bind.
	ErrInvalidTopology = errors.New("dynamo: invalid topology")

	// ErrDimensionMismatch indicates a state vector whose length does not match
	// the particle's 2-D/3-D mode.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and particle")

	// ErrInvalidConfig indicates an unusable setting.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNotFound indicates a referenced label or id that does not exist.
	ErrNotFound = errors.New("dynamo: not found")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
