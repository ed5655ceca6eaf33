package elements

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
)

const twoPi = 2 * math.Pi

// WrapAngle maps x into [0, 2π).
func WrapAngle(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	if x >= twoPi {
		x = 0
	}
	return x
}

// EccentricAnomaly maps true anomaly to eccentric anomaly for e < 1 via
// E = 2·atan(√((1−e)/(1+e))·tan(ν/2)). The result lies in (−π, π].
func EccentricAnomaly(nu, e float64) (float64, error) {
	if e < 0 || e >= 1 {
		return 0, fmt.Errorf("%w: eccentric anomaly needs 0 <= e < 1, got %g", orbit.ErrInvalidElement, e)
	}
	return 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(nu/2)), nil
}

// HyperbolicAnomaly maps true anomaly to hyperbolic anomaly for e > 1 via
// H = 2·atanh(√((e−1)/(e+1))·tan(ν/2)). ν must lie strictly inside the
// asymptotes.
func HyperbolicAnomaly(nu, e float64) (float64, error) {
	if e <= 1 {
		return 0, fmt.Errorf("%w: hyperbolic anomaly needs e > 1, got %g", orbit.ErrInvalidElement, e)
	}
	arg := math.Sqrt((e-1)/(e+1)) * math.Tan(nu/2)
	if math.Abs(arg) >= 1 {
		return 0, fmt.Errorf("%w: true anomaly %g beyond hyperbolic asymptote", orbit.ErrInvalidElement, nu)
	}
	return 2 * math.Atanh(arg), nil
}

// MeanAnomaly returns E − e·sinE for e < 1 and e·sinhH − H for e > 1.
func MeanAnomaly(anomaly, e float64) float64 {
	if e > 1 {
		return e*math.Sinh(anomaly) - anomaly
	}
	return anomaly - e*math.Sin(anomaly)
}

// TrueFromEccentric inverts EccentricAnomaly (e < 1) or HyperbolicAnomaly
// (e > 1). The result is wrapped into [0, 2π).
func TrueFromEccentric(anomaly, e float64) float64 {
	if e > 1 {
		return WrapAngle(2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(anomaly/2)))
	}
	s, c := math.Sincos(anomaly)
	return WrapAngle(math.Atan2(math.Sqrt(1-e*e)*s, c-e))
}

// Period returns 2π√(a³/μ) for an elliptic orbit.
func Period(a, mu float64) (float64, error) {
	if !(a > 0) || !(mu > 0) {
		return 0, fmt.Errorf("%w: period needs a > 0 and mu > 0", orbit.ErrInvalidElement)
	}
	return twoPi * math.Sqrt(a*a*a/mu), nil
}
