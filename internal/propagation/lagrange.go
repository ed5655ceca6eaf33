package propagation

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// Below this |f| the constraint ġ = (g·ḟ + 1)/f loses precision and the
// independent formula is used instead.
const constraintMinF = 1e-3

// lagrange holds the coefficients mapping the epoch state to a later one.
type lagrange struct {
	f, g, fDot, gDot float64
}

// resolveGDot picks the ġ evaluation. indep is the strategy's independent
// formula.
func resolveGDot(useConstraint bool, f, g, fDot, indep float64) float64 {
	if useConstraint && math.Abs(f) >= constraintMinF {
		return (g*fDot + 1) / f
	}
	return indep
}

func (l lagrange) position(r0, v0 md3.Vec) md3.Vec {
	return md3.Add(md3.Scale(l.f, r0), md3.Scale(l.g, v0))
}

func (l lagrange) velocity(r0, v0 md3.Vec) md3.Vec {
	return md3.Add(md3.Scale(l.fDot, r0), md3.Scale(l.gDot, v0))
}
