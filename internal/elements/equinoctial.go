package elements

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// ClassicalToEquinoctial maps classical elements to modified equinoctial
// elements. The map is undefined for retrograde equatorial orbits (i = π),
// where tan(i/2) diverges.
func ClassicalToEquinoctial(el Classical) (Equinoctial, error) {
	if el.Eccentricity == 1 {
		return Equinoctial{}, fmt.Errorf("%w: e == 1 has no semi-major axis", orbit.ErrInvalidElement)
	}
	return ClassicalToEquinoctialP(el.SemiLatusRectum(), el)
}

// ClassicalToEquinoctialP is ClassicalToEquinoctial parameterised by the
// semi-latus rectum; el.SemiMajorAxis is ignored.
func ClassicalToEquinoctialP(p float64, el Classical) (Equinoctial, error) {
	if el.Inclination < 0 || el.Inclination >= math.Pi {
		return Equinoctial{}, fmt.Errorf("%w: inclination %g outside [0, π)", orbit.ErrInvalidElement, el.Inclination)
	}
	lonPeri := el.ArgPeriapsis + el.RAAN
	t := math.Tan(el.Inclination / 2)
	return Equinoctial{
		P:             p,
		E1:            el.Eccentricity * math.Cos(lonPeri),
		E2:            el.Eccentricity * math.Sin(lonPeri),
		N1:            t * math.Cos(el.RAAN),
		N2:            t * math.Sin(el.RAAN),
		TrueLongitude: WrapAngle(el.RAAN + el.ArgPeriapsis + el.TrueAnomaly),
	}, nil
}

// EquinoctialToClassical inverts ClassicalToEquinoctial. Circular and
// equatorial results follow the same conventions as StateToClassical.
func EquinoctialToClassical(eq Equinoctial) Classical {
	e2sum := eq.E1*eq.E1 + eq.E2*eq.E2
	n2sum := eq.N1*eq.N1 + eq.N2*eq.N2

	raan := math.Atan2(eq.N2, eq.N1)
	lonPeri := math.Atan2(eq.E2, eq.E1)
	argp := lonPeri - raan
	if e2sum == 0 {
		argp = 0
		lonPeri = raan
	}
	return Classical{
		SemiMajorAxis: eq.P / (1 - e2sum),
		Eccentricity:  math.Sqrt(e2sum),
		Inclination:   2 * math.Atan(math.Sqrt(n2sum)),
		RAAN:          WrapAngle(raan),
		ArgPeriapsis:  WrapAngle(argp),
		TrueAnomaly:   WrapAngle(eq.TrueLongitude - lonPeri),
	}
}

// EquinoctialToState evaluates position and velocity directly from the
// modified equinoctial elements. No rotation matrices are involved, so
// circular and equatorial orbits need no special handling.
func EquinoctialToState(eq Equinoctial, mu float64) (orbit.State, error) {
	if !(mu > 0) {
		return orbit.State{}, fmt.Errorf("%w: mu must be positive, got %g", orbit.ErrInvalidElement, mu)
	}
	if !(eq.P > 0) {
		return orbit.State{}, fmt.Errorf("%w: semi-latus rectum must be positive, got %g", orbit.ErrInvalidElement, eq.P)
	}

	f, g, h, k := eq.E1, eq.E2, eq.N1, eq.N2
	sinL, cosL := math.Sincos(eq.TrueLongitude)

	alpha2 := h*h - k*k
	s2 := 1 + h*h + k*k
	w := 1 + f*cosL + g*sinL
	if w <= 0 {
		return orbit.State{}, fmt.Errorf("%w: true longitude %g beyond asymptote", orbit.ErrInvalidElement, eq.TrueLongitude)
	}
	r := eq.P / w
	hk2 := 2 * h * k

	pos := md3.Scale(r/s2, md3.Vec{
		X: cosL + alpha2*cosL + hk2*sinL,
		Y: sinL - alpha2*sinL + hk2*cosL,
		Z: 2 * (h*sinL - k*cosL),
	})
	vel := md3.Scale(-math.Sqrt(mu/eq.P)/s2, md3.Vec{
		X: sinL + alpha2*sinL - hk2*cosL + g - f*hk2 + alpha2*g,
		Y: -cosL + alpha2*cosL + hk2*sinL - f + g*hk2 + alpha2*f,
		Z: -2 * (h*cosL + k*sinL + f*h + g*k),
	})
	return orbit.State{Position: pos, Velocity: vel, Mu: mu}, nil
}
