package orbit

import (
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
)

// EarthMu is Earth's gravitational parameter in m³/s². It is provided for
// callers building configurations; nothing in the core defaults to it.
const EarthMu = 3.986004418e14

// State is a Cartesian two-body state.
type State struct {
	Position md3.Vec // [m]
	Velocity md3.Vec // [m/s]
	Epoch    float64 // [s]
	Mu       float64 // [m³/s²]
}

// Validate reports ErrInvalidState for a state that no propagator can start
// from.
func (s State) Validate() error {
	if !(s.Mu > 0) || math.IsInf(s.Mu, 0) {
		return fmt.Errorf("%w: mu=%g", ErrInvalidState, s.Mu)
	}
	if !finite(s.Position) || !finite(s.Velocity) || math.IsNaN(s.Epoch) || math.IsInf(s.Epoch, 0) {
		return ErrInvalidState
	}
	if md3.Norm2(s.Position) == 0 {
		return fmt.Errorf("%w: zero radius", ErrInvalidState)
	}
	return nil
}

func (s State) Radius() float64 { return md3.Norm(s.Position) }
func (s State) Speed() float64  { return md3.Norm(s.Velocity) }

// SpecificEnergy returns v²/2 − μ/r.
func (s State) SpecificEnergy() float64 {
	return SpecificEnergy(s.Position, s.Velocity, s.Mu)
}

// AngularMomentum returns the specific angular momentum r × v.
func (s State) AngularMomentum() md3.Vec {
	return md3.Cross(s.Position, s.Velocity)
}

// InverseSemiMajorAxis returns 1/a from the vis-viva equation. It is zero for
// a parabolic state and negative for a hyperbolic one.
func (s State) InverseSemiMajorAxis() float64 {
	return 2/s.Radius() - md3.Norm2(s.Velocity)/s.Mu
}

// Sample returns the time-tagged position and velocity of s.
func (s State) Sample() Sample {
	return Sample{Time: s.Epoch, Position: s.Position, Velocity: s.Velocity}
}

// Sample is one entry of a propagated trajectory.
type Sample struct {
	Time     float64
	Position md3.Vec
	Velocity md3.Vec
}

// State rebuilds a full state from the sample under gravitational parameter mu.
func (s Sample) State(mu float64) State {
	return State{Position: s.Position, Velocity: s.Velocity, Epoch: s.Time, Mu: mu}
}

// SpecificEnergy returns v²/2 − μ/r for the given position and velocity.
func SpecificEnergy(r, v md3.Vec, mu float64) float64 {
	return 0.5*md3.Norm2(v) - mu/md3.Norm(r)
}

func finite(v md3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
