package metrics

import (
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// RadiusRange records the smallest and largest radius seen. Value is the
// spread max − min.
type RadiusRange struct {
	min, max float64
	samples  int
}

func NewRadiusRange() *RadiusRange { return &RadiusRange{} }

func (r *RadiusRange) Name() string { return "radius_range" }

func (r *RadiusRange) Observe(s orbit.Sample) {
	rad := md3.Norm(s.Position)
	if r.samples == 0 {
		r.min, r.max = rad, rad
	}
	r.min = math.Min(r.min, rad)
	r.max = math.Max(r.max, rad)
	r.samples++
}

func (r *RadiusRange) Min() float64   { return r.min }
func (r *RadiusRange) Max() float64   { return r.max }
func (r *RadiusRange) Value() float64 { return r.max - r.min }

func (r *RadiusRange) Reset() {
	r.min, r.max = 0, 0
	r.samples = 0
}
