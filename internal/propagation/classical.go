package propagation

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/kepler"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// NewClassical returns an Engine solving Kepler's equation in eccentric
// (e < 1) or hyperbolic (e > 1) anomaly.
func NewClassical(opts Options) *Engine {
	return newEngine(&classical{}, opts)
}

type classical struct {
	r0, v0     md3.Vec
	r0Mag      float64
	a, e       float64
	mu         float64
	anomaly0   float64
	constraint bool
	eq         kepler.ClassicalEquation
}

func (c *classical) name() string { return KindClassical }

func (c *classical) prepare(initial orbit.State, opts Options) error {
	el, err := elements.StateToClassical(initial)
	if err != nil {
		return err
	}
	alpha := initial.InverseSemiMajorAxis()
	if el.Eccentricity == 1 || alpha == 0 {
		return fmt.Errorf("%w: parabolic orbit needs the universal propagator", orbit.ErrInvalidElement)
	}

	c.r0, c.v0 = initial.Position, initial.Velocity
	c.r0Mag = initial.Radius()
	c.mu = initial.Mu
	c.a = 1 / alpha
	c.e = el.Eccentricity
	c.constraint = opts.FGConstraint

	if c.e < 1 {
		c.anomaly0, err = elements.EccentricAnomaly(el.TrueAnomaly, c.e)
	} else {
		c.anomaly0, err = elements.HyperbolicAnomaly(el.TrueAnomaly, c.e)
	}
	if err != nil {
		return err
	}
	m0 := elements.MeanAnomaly(c.anomaly0, c.e)

	absA := math.Abs(c.a)
	c.eq = kepler.ClassicalEquation{
		Eccentricity:  c.e,
		MeanMotion:    math.Sqrt(c.mu / (absA * absA * absA)),
		M0:            m0,
		Tolerance:     opts.SolverTolerance,
		MaxIterations: opts.MaxIterations,
	}
	return nil
}

func (c *classical) seed(dt float64) float64 { return c.eq.Seed(dt) }

func (c *classical) step(dt, seed float64) (md3.Vec, md3.Vec, float64, error) {
	anomaly, _, err := c.eq.Solve(dt, c.eq.Reseed(seed, dt))
	if err != nil {
		return md3.Vec{}, md3.Vec{}, seed, err
	}
	var l lagrange
	if c.e < 1 {
		l = c.elliptic(anomaly, dt)
	} else {
		l = c.hyperbolic(anomaly, dt)
	}
	return l.position(c.r0, c.v0), l.velocity(c.r0, c.v0), anomaly, nil
}

func (c *classical) elliptic(E, dt float64) lagrange {
	dE := E - c.anomaly0
	sinDE, cosDE := math.Sincos(dE)
	r := c.a * (1 - c.e*math.Cos(E))

	l := lagrange{
		f:    1 - c.a/c.r0Mag*(1-cosDE),
		g:    dt - math.Sqrt(c.a*c.a*c.a/c.mu)*(dE-sinDE),
		fDot: -math.Sqrt(c.mu*c.a) / (r * c.r0Mag) * sinDE,
	}
	l.gDot = resolveGDot(c.constraint, l.f, l.g, l.fDot, 1-c.a/r*(1-cosDE))
	return l
}

func (c *classical) hyperbolic(H, dt float64) lagrange {
	dH := H - c.anomaly0
	sinhDH, coshDH := math.Sinh(dH), math.Cosh(dH)
	r := c.a * (1 - c.e*math.Cosh(H))
	negA := -c.a

	l := lagrange{
		f:    1 - c.a/c.r0Mag*(1-coshDH),
		g:    dt - math.Sqrt(negA*negA*negA/c.mu)*(sinhDH-dH),
		fDot: -math.Sqrt(c.mu*negA) / (r * c.r0Mag) * sinhDH,
	}
	l.gDot = resolveGDot(c.constraint, l.f, l.g, l.fDot, 1-c.a/r*(1-coshDH))
	return l
}
