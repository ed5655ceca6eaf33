package elements

import (
	"fmt"
	"math"
)

// Classical holds the classical (Keplerian) orbital elements.
type Classical struct {
	SemiMajorAxis float64 `yaml:"a" json:"a"` // negative for hyperbolic orbits
	Eccentricity  float64 `yaml:"e" json:"e"`
	RAAN          float64 `yaml:"raan" json:"raan"` // Ω
	ArgPeriapsis  float64 `yaml:"argp" json:"argp"` // ω
	Inclination   float64 `yaml:"inc" json:"inc"`   // i ∈ [0, π]
	TrueAnomaly   float64 `yaml:"nu" json:"nu"`     // ν
}

// SemiLatusRectum returns a(1−e²).
func (el Classical) SemiLatusRectum() float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity*el.Eccentricity)
}

// IsHyperbolic reports e > 1.
func (el Classical) IsHyperbolic() bool { return el.Eccentricity > 1 }

func (el Classical) String() string {
	return fmt.Sprintf("a=%.3f e=%.6f i=%.4f° Ω=%.4f° ω=%.4f° ν=%.4f°",
		el.SemiMajorAxis, el.Eccentricity,
		deg(el.Inclination), deg(el.RAAN), deg(el.ArgPeriapsis), deg(el.TrueAnomaly))
}

// Equinoctial holds the modified equinoctial elements.
type Equinoctial struct {
	P             float64 // semi-latus rectum
	E1            float64 // e·cos(ω+Ω)
	E2            float64 // e·sin(ω+Ω)
	N1            float64 // tan(i/2)·cos Ω
	N2            float64 // tan(i/2)·sin Ω
	TrueLongitude float64 // L = Ω+ω+ν
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
