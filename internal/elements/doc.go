// Package elements converts between classical orbital elements, modified
// equinoctial elements and Cartesian states.
//
// All angles are in radians. Recovered angles are wrapped into [0, 2π)
// except inclination, which lies in [0, π].
//
// # Degenerate Orbits
//
// Circular (e = 0) and equatorial (i = 0 or π) orbits leave some classical
// angles undefined. [StateToClassical] does not fail on them; it returns the
// conventional substitute and [Degeneracy] reports which angles are
// ill-conditioned:
//
//   - circular inclined: ω = 0, ν is the argument of latitude
//   - equatorial elliptic: Ω = 0, ω is the longitude of periapsis
//   - circular equatorial: Ω = ω = 0, ν is the true longitude
package elements
