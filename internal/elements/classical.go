package elements

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/frames"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// Thresholds below which eccentricity or the node-vector ratio |n|/|h| are
// treated as zero when recovering angles.
const (
	circularTol   = 1e-11
	equatorialTol = 1e-11
)

// ClassicalToState converts classical elements to an inertial state at epoch
// zero. Parabolic orbits (e == 1) have no semi-major axis and must go through
// ClassicalToStateP.
func ClassicalToState(el Classical, mu float64) (orbit.State, error) {
	if el.Eccentricity == 1 {
		return orbit.State{}, fmt.Errorf("%w: e == 1 requires the semi-latus-rectum path", orbit.ErrInvalidElement)
	}
	return ClassicalToStateP(el.SemiLatusRectum(), el, mu)
}

// ClassicalToStateP is ClassicalToState parameterised by the semi-latus
// rectum p; el.SemiMajorAxis is ignored.
func ClassicalToStateP(p float64, el Classical, mu float64) (orbit.State, error) {
	e, nu := el.Eccentricity, el.TrueAnomaly
	switch {
	case !(mu > 0):
		return orbit.State{}, fmt.Errorf("%w: mu must be positive, got %g", orbit.ErrInvalidElement, mu)
	case e < 0 || math.IsNaN(e):
		return orbit.State{}, fmt.Errorf("%w: eccentricity %g", orbit.ErrInvalidElement, e)
	case !(p > 0):
		return orbit.State{}, fmt.Errorf("%w: semi-latus rectum must be positive, got %g", orbit.ErrInvalidElement, p)
	case el.Inclination < 0 || el.Inclination > math.Pi:
		return orbit.State{}, fmt.Errorf("%w: inclination %g outside [0, π]", orbit.ErrInvalidElement, el.Inclination)
	}

	sinNu, cosNu := math.Sincos(nu)
	denom := 1 + e*cosNu
	if denom <= 0 {
		return orbit.State{}, fmt.Errorf("%w: true anomaly %g beyond asymptote", orbit.ErrInvalidElement, nu)
	}

	r := p / denom
	rDot := math.Sqrt(mu/p) * e * sinNu
	nuDot := math.Sqrt(mu*p) / (r * r)

	dcm := frames.LocalToInertial(el.RAAN, el.Inclination, el.ArgPeriapsis, nu)
	return orbit.State{
		Position: frames.Apply(dcm, md3.Vec{X: r}),
		Velocity: frames.Apply(dcm, md3.Vec{X: rDot, Y: r * nuDot}),
		Mu:       mu,
	}, nil
}

// StateToClassical recovers classical elements from a state. Degenerate
// geometry yields the conventional angles documented in the package comment;
// only an invalid state is an error. A parabolic state has an infinite
// semi-major axis.
func StateToClassical(s orbit.State) (Classical, error) {
	if err := s.Validate(); err != nil {
		return Classical{}, err
	}
	r, v, mu := s.Position, s.Velocity, s.Mu

	h := md3.Cross(r, v)
	hMag := md3.Norm(h)
	if hMag == 0 {
		return Classical{}, fmt.Errorf("%w: rectilinear motion (r ∥ v)", orbit.ErrInvalidState)
	}
	rMag := md3.Norm(r)
	eVec := md3.Sub(md3.Scale(1/mu, md3.Cross(v, h)), md3.Scale(1/rMag, r))
	n := md3.Vec{X: -h.Y, Y: h.X}
	nMag := md3.Norm(n)

	e := md3.Norm(eVec)
	p := hMag * hMag / mu
	el := Classical{
		Eccentricity:  e,
		SemiMajorAxis: p / (1 - e*e),
		Inclination:   math.Atan2(nMag, h.Z),
	}

	circular := e < circularTol
	equatorial := nMag/hMag < equatorialTol

	switch {
	case !circular && !equatorial:
		el.RAAN = math.Atan2(n.Y, n.X)
		el.ArgPeriapsis = math.Atan2(md3.Dot(eVec, md3.Cross(h, n))/hMag, md3.Dot(eVec, n))
		el.TrueAnomaly = math.Atan2(md3.Dot(r, md3.Cross(h, eVec))/hMag, md3.Dot(r, eVec))
	case circular && !equatorial:
		el.RAAN = math.Atan2(n.Y, n.X)
		el.TrueAnomaly = math.Atan2(md3.Dot(r, md3.Cross(h, n))/hMag, md3.Dot(r, n))
	case !circular && equatorial:
		el.ArgPeriapsis = math.Atan2(eVec.Y, eVec.X)
		if h.Z < 0 {
			el.ArgPeriapsis = -el.ArgPeriapsis
		}
		el.TrueAnomaly = math.Atan2(md3.Dot(r, md3.Cross(h, eVec))/hMag, md3.Dot(r, eVec))
	default:
		el.TrueAnomaly = math.Atan2(r.Y, r.X)
		if h.Z < 0 {
			el.TrueAnomaly = -el.TrueAnomaly
		}
	}

	el.RAAN = WrapAngle(el.RAAN)
	el.ArgPeriapsis = WrapAngle(el.ArgPeriapsis)
	el.TrueAnomaly = WrapAngle(el.TrueAnomaly)
	return el, nil
}

// SemiLatusRectum returns |r × v|²/μ, defined for every conic including the
// parabola.
func SemiLatusRectum(s orbit.State) float64 {
	h := md3.Norm(s.AngularMomentum())
	return h * h / s.Mu
}

// Degeneracy reports which classical angles of el are ill-conditioned. The
// returned error wraps orbit.ErrDegenerateGeometry; nil means every angle is
// well defined.
func Degeneracy(el Classical) error {
	circular := el.Eccentricity < circularTol
	equatorial := math.Sin(el.Inclination) < equatorialTol
	switch {
	case circular && equatorial:
		return fmt.Errorf("%w: circular equatorial orbit, Ω and ω undefined (ν is true longitude)", orbit.ErrDegenerateGeometry)
	case circular:
		return fmt.Errorf("%w: circular orbit, ω undefined (ν is argument of latitude)", orbit.ErrDegenerateGeometry)
	case equatorial:
		return fmt.Errorf("%w: equatorial orbit, Ω undefined (ω is longitude of periapsis)", orbit.ErrDegenerateGeometry)
	}
	return nil
}
