package orbit

import (
	"errors"
	"fmt"
)

// Domain errors for element conversion and propagation.
var (
	// ErrInvalidElement indicates orbital elements that the requested
	// conversion cannot represent, e.g. e == 1 on the semi-major-axis path.
	ErrInvalidElement = errors.New("orbit: invalid orbital element")

	// ErrInvalidArgument indicates a malformed argument such as a rotation
	// axis outside {1,2,3} or a non-positive step size.
	ErrInvalidArgument = errors.New("orbit: invalid argument")

	// ErrInvalidState indicates a state with zero radius, non-positive mu or
	// NaN/Inf components.
	ErrInvalidState = errors.New("orbit: invalid state (zero radius, NaN or Inf)")

	// ErrDegenerateGeometry marks angles that are ill-conditioned because the
	// orbit is circular or equatorial. Conversions still return the
	// convention-defined value.
	ErrDegenerateGeometry = errors.New("orbit: degenerate geometry")

	// ErrNonConvergence indicates a root solve that exhausted its iteration
	// budget without meeting tolerance.
	ErrNonConvergence = errors.New("orbit: solver did not converge")

	// ErrLifecycle indicates a propagator operation invoked in the wrong phase.
	ErrLifecycle = errors.New("orbit: invalid propagator lifecycle transition")

	// ErrHistoryFull indicates an append past the allocated history capacity
	// or into a sealed history.
	ErrHistoryFull = errors.New("orbit: history full or sealed")
)

// StepError wraps a failure with the propagation step that produced it.
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
