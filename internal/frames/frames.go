// Package frames builds direction-cosine matrices between the local,
// perifocal and inertial frames of a two-body orbit.
package frames

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/mat"
)

// Axis selects a principal axis for an elementary rotation.
type Axis int

const (
	X Axis = 1
	Y Axis = 2
	Z Axis = 3
)

// Rotation returns the elementary direction-cosine matrix for a right-handed
// rotation of the frame by angle about axis. Rotation(axis, -θ) is the
// transpose of Rotation(axis, θ).
func Rotation(axis Axis, angle float64) (*mat.Dense, error) {
	s, c := math.Sincos(angle)
	switch axis {
	case X:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, s,
			0, -s, c,
		}), nil
	case Y:
		return mat.NewDense(3, 3, []float64{
			c, 0, -s,
			0, 1, 0,
			s, 0, c,
		}), nil
	case Z:
		return mat.NewDense(3, 3, []float64{
			c, s, 0,
			-s, c, 0,
			0, 0, 1,
		}), nil
	}
	return nil, fmt.Errorf("%w: rotation axis %d", orbit.ErrInvalidArgument, axis)
}

func mustRotation(axis Axis, angle float64) *mat.Dense {
	m, err := Rotation(axis, angle)
	if err != nil {
		panic(err)
	}
	return m
}

// PerifocalToInertial returns R3(−Ω)·R1(−i)·R3(−ω).
func PerifocalToInertial(raan, inc, argp float64) *mat.Dense {
	var tmp, out mat.Dense
	tmp.Mul(mustRotation(Z, -raan), mustRotation(X, -inc))
	out.Mul(&tmp, mustRotation(Z, -argp))
	return &out
}

// LocalToPerifocal returns R3(−ν), mapping radial/along-track components
// into the perifocal frame.
func LocalToPerifocal(nu float64) *mat.Dense {
	return mustRotation(Z, -nu)
}

// LocalToInertial composes PerifocalToInertial and LocalToPerifocal.
func LocalToInertial(raan, inc, argp, nu float64) *mat.Dense {
	var out mat.Dense
	out.Mul(PerifocalToInertial(raan, inc, argp), LocalToPerifocal(nu))
	return &out
}

// Apply returns m·v.
func Apply(m mat.Matrix, v md3.Vec) md3.Vec {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return md3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
