package kepler

import "math"

// Stumpff evaluates the Stumpff functions s(z) and c(z). Inside
// |z| < Tolerance the power series with Terms terms is used; outside, the
// trigonometric (z > 0) or hyperbolic (z < 0) closed forms.
type Stumpff struct {
	Tolerance float64
	Terms     int
}

func DefaultStumpff() Stumpff {
	return Stumpff{Tolerance: 1e-2, Terms: 10}
}

// Eval returns (s(z), c(z)).
func (st Stumpff) Eval(z float64) (s, c float64) {
	if z == 0 || math.Abs(z) < st.Tolerance {
		return st.Series(z)
	}
	return ClosedForm(z)
}

// Series sums c = Σ(−z)^k/(2k+2)! and s = Σ(−z)^k/(2k+3)! for k < Terms.
// Terms ≤ 0 falls back to the default term count.
func (st Stumpff) Series(z float64) (s, c float64) {
	n := st.Terms
	if n <= 0 {
		n = DefaultStumpff().Terms
	}
	cTerm, sTerm := 0.5, 1.0/6
	for k := 0; k < n; k++ {
		c += cTerm
		s += sTerm
		m := float64(2 * (k + 1))
		cTerm *= -z / ((m + 1) * (m + 2))
		sTerm *= -z / ((m + 2) * (m + 3))
	}
	return s, c
}

// ClosedForm evaluates s and c analytically. It divides by z and must not be
// called with z == 0.
func ClosedForm(z float64) (s, c float64) {
	switch {
	case z > 0:
		sq := math.Sqrt(z)
		return (sq - math.Sin(sq)) / (sq * sq * sq), (1 - math.Cos(sq)) / z
	case z < 0:
		sq := math.Sqrt(-z)
		return (math.Sinh(sq) - sq) / (sq * sq * sq), (math.Cosh(sq) - 1) / -z
	}
	return math.NaN(), math.NaN()
}
