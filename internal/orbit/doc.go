// Package orbit provides the core types shared by the two-body propagation
// engine.
//
// The package defines the data that flows between the element converters,
// the Kepler solvers and the propagators:
//
//   - [State]: position, velocity, epoch and gravitational parameter
//   - [Sample]: one time-tagged entry of a propagated trajectory
//   - [History]: fixed-capacity, append-only trajectory buffer
//
// # Example
//
//	x0, _ := elements.ClassicalToState(el, orbit.EarthMu)
//	p, _ := propagation.New(propagation.KindUniversal, propagation.DefaultOptions())
//	_ = p.Configure(x0, 5828.5, 0)
//	_ = p.Propagate(ctx)
//	last := p.History().Last()
//
// # Thread Safety
//
// History and State values are not synchronized. A History is written only by
// the propagator that owns it and becomes read-only once sealed.
package orbit
