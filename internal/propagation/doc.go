// Package propagation advances a two-body state in time with closed-form
// Lagrange coefficients.
//
// Two strategies share one lifecycle (Engine):
//
//   - universal: universal-variable Kepler equation with Stumpff functions.
//     Valid for every conic, including parabolic orbits. This is the default.
//   - classical: eccentric or hyperbolic anomaly form of Kepler's equation.
//     Rejects e == 1.
//
// Every step is evaluated against the fixed epoch state (r₀, v₀) supplied to
// Configure, never against the previous sample, so errors do not accumulate
// from step to step:
//
//	p := propagation.NewUniversal(propagation.DefaultOptions())
//	if err := p.Configure(initial, initial.Epoch+5828.5, 0); err != nil {
//		return err
//	}
//	if err := p.Propagate(ctx); err != nil {
//		return err
//	}
//	last := p.History().Last()
//
// An Engine is not safe for concurrent use. Independent engines share no
// state.
package propagation
