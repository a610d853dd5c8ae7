package world

import "errors"

// Domain errors for world operations.
var (
	// ErrModelLoaded indicates a model name is already registered.
	ErrModelLoaded = errors.New("world: model already loaded")

	// ErrModelNotFound indicates an operation named an unregistered model.
	ErrModelNotFound = errors.New("world: model not loaded")

	// ErrUnknownJoint indicates a joint lookup missed.
	ErrUnknownJoint = errors.New("world: unknown joint")

	// ErrUnknownLink indicates a link lookup missed.
	ErrUnknownLink = errors.New("world: unknown link")
)

// StepError wraps a failed step with the simulation time it broke at. The
// world refuses further steps until a reset or a successful load.
type StepError struct {
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
