// Package perturb defines the capability perturbation force models expose
// to future integrators. The analytic propagators never call it; it exists
// so that providers can be written and tested against the orbit types.
package perturb

import (
	"fmt"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// Provider returns the perturbing acceleration (m/s²) acting on state at
// time.
type Provider interface {
	Evaluate(time float64, state orbit.State) (md3.Vec, error)
}

// Func adapts a function to Provider.
type Func func(time float64, state orbit.State) (md3.Vec, error)

func (f Func) Evaluate(time float64, state orbit.State) (md3.Vec, error) {
	return f(time, state)
}

// None is the unperturbed two-body case.
type None struct{}

func (None) Evaluate(float64, orbit.State) (md3.Vec, error) { return md3.Vec{}, nil }

// Sum adds the accelerations of several providers. The first error aborts
// the sum.
type Sum []Provider

func (s Sum) Evaluate(time float64, state orbit.State) (md3.Vec, error) {
	var total md3.Vec
	for i, p := range s {
		a, err := p.Evaluate(time, state)
		if err != nil {
			return md3.Vec{}, fmt.Errorf("perturbation %d: %w", i, err)
		}
		total = md3.Add(total, a)
	}
	return total, nil
}
