// Package kepler holds the numerical core shared by the propagators: the
// Stumpff functions s(z), c(z), a generic capped Newton-Raphson solver, and
// the two forms of Kepler's equation (classical anomaly and universal
// variable) expressed as explicit equation structs.
//
// Every solve is bounded by an iteration cap; exceeding it returns a
// *ConvergenceError that wraps orbit.ErrNonConvergence.
package kepler
