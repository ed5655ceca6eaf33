package viz

import (
	"math"

	"github.com/san-kum/orbitprop/internal/frames"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/mat"
)

// Camera is an orthographic view of the inertial frame. Yaw turns about the
// inertial z axis, then Pitch tilts about the resulting x axis. With both
// zero the view looks down +z onto the x-y plane.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera() Camera { return Camera{Zoom: 1} }

func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dPitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(20, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.05, c.Zoom/1.25) }

func (c Camera) matrix() *mat.Dense {
	yaw, _ := frames.Rotation(frames.Z, c.Yaw)
	pitch, _ := frames.Rotation(frames.X, c.Pitch)
	var m mat.Dense
	m.Mul(pitch, yaw)
	return &m
}

// View rotates an inertial vector into camera coordinates: x right, y up,
// z toward the viewer.
func (c Camera) View(v md3.Vec) md3.Vec {
	return frames.Apply(c.matrix(), v)
}

// Projector maps inertial positions to canvas dots for one frame.
type Projector struct {
	m            *mat.Dense
	scale        float64
	originX      float64
	originY      float64
	dotsW, dotsH int
}

// NewProjector fits a sphere of radius extent (scaled by the zoom) into the
// canvas, centered on the origin. Terminal cells are twice as tall as wide,
// and braille dots are 2x4 per cell, so dots come out square.
func (c Camera) NewProjector(canvas *Canvas, extent float64) Projector {
	w, h := canvas.Dots()
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	scale := 0.0
	if extent > 0 {
		scale = zoom * float64(min(w, h)) / (2 * extent)
	}
	return Projector{
		m:       c.matrix(),
		scale:   scale,
		originX: float64(w) / 2,
		originY: float64(h) / 2,
		dotsW:   w,
		dotsH:   h,
	}
}

// Project returns the dot coordinates of p and whether they fall on the
// canvas.
func (p Projector) Project(v md3.Vec) (x, y int, ok bool) {
	r := frames.Apply(p.m, v)
	x = int(math.Round(p.originX + r.X*p.scale))
	y = int(math.Round(p.originY - r.Y*p.scale))
	return x, y, x >= 0 && y >= 0 && x < p.dotsW && y < p.dotsH
}

// DrawPath connects consecutive sample positions.
func DrawPath(c *Canvas, p Projector, samples []orbit.Sample) {
	for i := 1; i < len(samples); i++ {
		x0, y0, ok0 := p.Project(samples[i-1].Position)
		x1, y1, ok1 := p.Project(samples[i].Position)
		if ok0 || ok1 {
			c.Line(x0, y0, x1, y1)
		}
	}
}

// DrawMarker draws a small cross at v.
func DrawMarker(c *Canvas, p Projector, v md3.Vec) {
	x, y, _ := p.Project(v)
	c.Line(x-2, y, x+2, y)
	c.Line(x, y-2, x, y+2)
}

// DrawBody outlines the central body of the given radius as a circle in the
// view plane.
func DrawBody(c *Canvas, p Projector, radius float64) {
	const segments = 48
	r := radius * p.scale
	prevX, prevY := int(math.Round(p.originX+r)), int(math.Round(p.originY))
	for i := 1; i <= segments; i++ {
		s, co := math.Sincos(2 * math.Pi * float64(i) / segments)
		x, y := int(math.Round(p.originX+r*co)), int(math.Round(p.originY-r*s))
		c.Line(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
}

// Extent returns the largest radius in samples.
func Extent(samples []orbit.Sample) float64 {
	ext := 0.0
	for _, s := range samples {
		ext = math.Max(ext, md3.Norm(s.Position))
	}
	return ext
}
