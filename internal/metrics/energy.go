package metrics

import (
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// EnergyDrift tracks the largest relative change of specific orbital energy
// from the first observed sample. A parabolic start (ε₀ = 0) is measured
// against μ/r₀ instead.
type EnergyDrift struct {
	mu       float64
	scale    float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(mu float64) *EnergyDrift {
	return &EnergyDrift{mu: mu}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s orbit.Sample) {
	energy := orbit.SpecificEnergy(s.Position, s.Velocity, e.mu)
	if e.samples == 0 {
		e.initial = energy
		e.scale = math.Abs(energy)
		if e.scale == 0 {
			e.scale = e.mu / md3.Norm(s.Position)
		}
	}
	e.samples++

	if e.scale != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/e.scale)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.scale = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift tracks the largest |h − h₀|/|h₀| over the samples.
type AngularMomentumDrift struct {
	initial  md3.Vec
	norm     float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(s orbit.Sample) {
	h := md3.Cross(s.Position, s.Velocity)
	if a.samples == 0 {
		a.initial = h
		a.norm = md3.Norm(h)
	}
	a.samples++
	if a.norm != 0 {
		a.maxDrift = math.Max(a.maxDrift, md3.Norm(md3.Sub(h, a.initial))/a.norm)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = md3.Vec{}
	a.norm = 0
	a.maxDrift = 0
	a.samples = 0
}
