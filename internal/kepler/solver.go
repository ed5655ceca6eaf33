package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
)

// Solver limits shared by both equations. Zero values select the defaults.
const (
	DefaultTolerance     = 1e-8
	DefaultMaxIterations = 50
)

// ReseedDistance is how far, in radians of mean anomaly, a previous solution
// may be from the target before a fresh seed replaces it.
const ReseedDistance = 1.0

// EllipticSeed is Danby's starting value M + 0.85·e·sign(sin M) for
// M = E − e·sinE, applied to M reduced into [−π, π) and shifted back by the
// removed revolutions.
func EllipticSeed(m, e float64) float64 {
	revs := 2 * math.Pi * math.Floor((m+math.Pi)/(2*math.Pi))
	reduced := m - revs
	sign := 1.0
	if math.Sin(reduced) < 0 {
		sign = -1
	}
	return revs + reduced + 0.85*e*sign
}

// HyperbolicSeed is the starting value sign(M)·ln(2|M|/e + 1.8) for
// M = e·sinhH − H.
func HyperbolicSeed(m, e float64) float64 {
	h := math.Log(2*math.Abs(m)/e + 1.8)
	if m < 0 {
		return -h
	}
	return h
}

func limits(tol float64, maxIter int) (float64, int) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return tol, maxIter
}

// ClassicalEquation is Kepler's equation in anomaly form. The mean anomaly at
// elapsed time dt is M0 + MeanMotion·dt.
type ClassicalEquation struct {
	Eccentricity float64
	MeanMotion   float64
	M0           float64

	Tolerance     float64
	MaxIterations int
}

// MeanAnomaly returns M0 + n·dt.
func (k ClassicalEquation) MeanAnomaly(dt float64) float64 {
	return k.M0 + k.MeanMotion*dt
}

// Seed returns a starting anomaly for dt that does not depend on a previous
// solution.
func (k ClassicalEquation) Seed(dt float64) float64 {
	m := k.MeanAnomaly(dt)
	if k.Eccentricity > 1 {
		return HyperbolicSeed(m, k.Eccentricity)
	}
	return EllipticSeed(m, k.Eccentricity)
}

// Reseed returns prev unless its mean anomaly is more than ReseedDistance
// from the target at dt, in which case it returns Seed(dt).
func (k ClassicalEquation) Reseed(prev, dt float64) float64 {
	e := k.Eccentricity
	mPrev := prev - e*math.Sin(prev)
	if e > 1 {
		mPrev = e*math.Sinh(prev) - prev
	}
	if math.Abs(mPrev-k.MeanAnomaly(dt)) > ReseedDistance || math.IsNaN(mPrev) {
		return k.Seed(dt)
	}
	return prev
}

// Solve picks the elliptic or hyperbolic branch from the eccentricity.
func (k ClassicalEquation) Solve(dt, seed float64) (float64, int, error) {
	switch e := k.Eccentricity; {
	case e < 0 || math.IsNaN(e):
		return 0, 0, fmt.Errorf("%w: eccentricity %g", orbit.ErrInvalidElement, e)
	case e < 1:
		return k.SolveElliptic(dt, seed)
	case e > 1:
		return k.SolveHyperbolic(dt, seed)
	}
	return 0, 0, fmt.Errorf("%w: classical Kepler equation undefined at e == 1", orbit.ErrInvalidElement)
}

// SolveElliptic solves M = E − e·sinE for E.
func (k ClassicalEquation) SolveElliptic(dt, seed float64) (float64, int, error) {
	e, m := k.Eccentricity, k.MeanAnomaly(dt)
	tol, maxIter := limits(k.Tolerance, k.MaxIterations)
	return Newton(
		func(x float64) float64 { return x - e*math.Sin(x) - m },
		func(x float64) float64 { return 1 - e*math.Cos(x) },
		seed, tol, maxIter)
}

// SolveHyperbolic solves M = e·sinhH − H for H.
func (k ClassicalEquation) SolveHyperbolic(dt, seed float64) (float64, int, error) {
	e, m := k.Eccentricity, k.MeanAnomaly(dt)
	tol, maxIter := limits(k.Tolerance, k.MaxIterations)
	return Newton(
		func(x float64) float64 { return e*math.Sinh(x) - x - m },
		func(x float64) float64 { return e*math.Cosh(x) - 1 },
		seed, tol, maxIter)
}

// UniversalEquation is Kepler's equation in the universal variable x,
//
//	x³s(z) + (r₀·v₀/√μ)x²c(z) + r₀x(1 − z·s(z)) − √μ·Δt = 0,  z = αx²,
//
// with α = 1/a, so parabolic orbits (α = 0) need no special case.
type UniversalEquation struct {
	R0     float64 // |r₀|
	RdotV0 float64 // r₀·v₀
	Alpha  float64 // inverse semi-major axis
	SqrtMu float64

	Stumpff       Stumpff
	Tolerance     float64
	MaxIterations int
}

// Residual evaluates the left-hand side at x for elapsed time dt.
func (u UniversalEquation) Residual(x, dt float64) float64 {
	z := u.Alpha * x * x
	s, c := u.Stumpff.Eval(z)
	return u.RdotV0/u.SqrtMu*x*x*c + (1-u.Alpha*u.R0)*x*x*x*s + u.R0*x - u.SqrtMu*dt
}

// Radius is the derivative of Residual with respect to x, which equals the
// orbital radius at x.
func (u UniversalEquation) Radius(x float64) float64 {
	z := u.Alpha * x * x
	s, c := u.Stumpff.Eval(z)
	return u.RdotV0/u.SqrtMu*x*(1-z*s) + (1-u.Alpha*u.R0)*x*x*c + u.R0
}

// Seed returns a first guess for x at dt when no previous solution exists.
// Non-parabolic orbits take whichever of the mean-motion guess and the
// anomaly-seeded guess has the smaller residual.
func (u UniversalEquation) Seed(dt float64) float64 {
	switch {
	case u.Alpha > 0:
		return u.closer(dt, u.SqrtMu*u.Alpha*dt, u.ellipticSeed(dt))
	case u.Alpha < 0:
		return u.closer(dt, u.SqrtMu*dt/u.R0, u.hyperbolicSeed(dt))
	}
	return u.SqrtMu * dt / u.R0
}

// ellipticSeed maps EllipticSeed onto x = √a·(E − E₀).
func (u UniversalEquation) ellipticSeed(dt float64) float64 {
	sqrtAlpha := math.Sqrt(u.Alpha)
	eCos := 1 - u.R0*u.Alpha
	eSin := u.RdotV0 * sqrtAlpha / u.SqrtMu
	e := math.Hypot(eCos, eSin)
	e0 := math.Atan2(eSin, eCos)
	m := e0 - eSin + u.SqrtMu*u.Alpha*sqrtAlpha*dt
	return (EllipticSeed(m, e) - e0) / sqrtAlpha
}

// hyperbolicSeed maps HyperbolicSeed onto x = (H − H₀)/√(−α).
func (u UniversalEquation) hyperbolicSeed(dt float64) float64 {
	sqrtNegAlpha := math.Sqrt(-u.Alpha)
	eCosh := 1 - u.R0*u.Alpha
	eSinh := u.RdotV0 * sqrtNegAlpha / u.SqrtMu
	e := math.Sqrt(eCosh*eCosh - eSinh*eSinh)
	h0 := math.Asinh(eSinh / e)
	m := eSinh - h0 + u.SqrtMu*(-u.Alpha)*sqrtNegAlpha*dt
	return (HyperbolicSeed(m, e) - h0) / sqrtNegAlpha
}

// Reseed returns whichever of prev and Seed(dt) has the smaller residual.
func (u UniversalEquation) Reseed(prev, dt float64) float64 {
	return u.closer(dt, prev, u.Seed(dt))
}

func (u UniversalEquation) closer(dt, a, b float64) float64 {
	ra, rb := math.Abs(u.Residual(a, dt)), math.Abs(u.Residual(b, dt))
	if math.IsNaN(ra) || rb < ra {
		return b
	}
	return a
}

// Solve returns x at elapsed time dt, starting Newton from seed.
func (u UniversalEquation) Solve(dt, seed float64) (float64, int, error) {
	if !(u.R0 > 0) || !(u.SqrtMu > 0) {
		return 0, 0, fmt.Errorf("%w: universal equation needs r0 > 0 and mu > 0", orbit.ErrInvalidArgument)
	}
	tol, maxIter := limits(u.Tolerance, u.MaxIterations)
	return Newton(
		func(x float64) float64 { return u.Residual(x, dt) },
		u.Radius,
		seed, tol, maxIter)
}
