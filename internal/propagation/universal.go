package propagation

import (
	"math"

	"github.com/san-kum/orbitprop/internal/kepler"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// NewUniversal returns an Engine using the universal-variable formulation.
func NewUniversal(opts Options) *Engine {
	return newEngine(&universal{}, opts)
}

type universal struct {
	r0, v0     md3.Vec
	r0Mag      float64
	sqrtMu     float64
	constraint bool
	eq         kepler.UniversalEquation
}

func (u *universal) name() string { return KindUniversal }

func (u *universal) prepare(initial orbit.State, opts Options) error {
	u.r0, u.v0 = initial.Position, initial.Velocity
	u.r0Mag = initial.Radius()
	u.sqrtMu = math.Sqrt(initial.Mu)
	u.constraint = opts.FGConstraint
	u.eq = kepler.UniversalEquation{
		R0:            u.r0Mag,
		RdotV0:        md3.Dot(u.r0, u.v0),
		Alpha:         initial.InverseSemiMajorAxis(),
		SqrtMu:        u.sqrtMu,
		Stumpff:       opts.Stumpff,
		Tolerance:     opts.SolverTolerance,
		MaxIterations: opts.MaxIterations,
	}
	return nil
}

func (u *universal) seed(dt float64) float64 { return u.eq.Seed(dt) }

func (u *universal) step(dt, seed float64) (md3.Vec, md3.Vec, float64, error) {
	x, _, err := u.eq.Solve(dt, u.eq.Reseed(seed, dt))
	if err != nil {
		return md3.Vec{}, md3.Vec{}, seed, err
	}
	l := u.coefficients(x, dt)
	return l.position(u.r0, u.v0), l.velocity(u.r0, u.v0), x, nil
}

func (u *universal) coefficients(x, dt float64) lagrange {
	x2 := x * x
	z := u.eq.Alpha * x2
	s, c := u.eq.Stumpff.Eval(z)

	l := lagrange{
		f: 1 - x2*c/u.r0Mag,
		g: dt - x2*x*s/u.sqrtMu,
	}
	r := md3.Norm(l.position(u.r0, u.v0))
	l.fDot = u.sqrtMu / (u.r0Mag * r) * x * (z*s - 1)
	l.gDot = resolveGDot(u.constraint, l.f, l.g, l.fDot, 1-x2*c/r)
	return l
}
