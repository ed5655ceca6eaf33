package metrics

import (
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// Clearance is the fraction of samples whose radius stays above a body
// radius. The propagators ignore the central body's surface, so a value
// below 1 flags a trajectory that passes through it.
type Clearance struct {
	bodyRadius float64
	violations int
	samples    int
}

func NewClearance(bodyRadius float64) *Clearance {
	return &Clearance{bodyRadius: bodyRadius}
}

func (c *Clearance) Name() string { return "clearance" }

func (c *Clearance) Observe(s orbit.Sample) {
	c.samples++
	if md3.Norm(s.Position) <= c.bodyRadius {
		c.violations++
	}
}

func (c *Clearance) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Clearance) Reset() {
	c.violations = 0
	c.samples = 0
}
