package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitprop/internal/orbit"
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// ConvergenceError reports a Newton solve that stopped without meeting its
// tolerance.
type ConvergenceError struct {
	Iterations int
	Last       float64 // last iterate
	Residual   float64 // fn(Last)
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: %s after %d iterations (x=%g, residual=%g)",
		orbit.ErrNonConvergence, e.Reason, e.Iterations, e.Last, e.Residual)
}

func (e *ConvergenceError) Unwrap() error { return orbit.ErrNonConvergence }

// Newton finds a root of fn starting from seed. Iteration stops once a step
// |Δx| ≤ tol. A nil deriv is replaced by a central difference.
func Newton(fn, deriv Func, seed, tol float64, maxIter int) (root float64, iterations int, err error) {
	if fn == nil || !(tol > 0) || maxIter <= 0 {
		return seed, 0, fmt.Errorf("%w: newton needs fn, tol > 0 and maxIter > 0", orbit.ErrInvalidArgument)
	}
	if deriv == nil {
		deriv = centralDifference(fn)
	}

	x := seed
	for i := 1; i <= maxIter; i++ {
		fx := fn(x)
		d := deriv(x)
		if d == 0 || math.IsNaN(d) {
			return x, i, &ConvergenceError{Iterations: i, Last: x, Residual: fx, Reason: "zero derivative"}
		}
		dx := fx / d
		x -= dx
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return x, i, &ConvergenceError{Iterations: i, Last: x, Residual: fx, Reason: "non-finite iterate"}
		}
		if math.Abs(dx) <= tol {
			return x, i, nil
		}
	}
	return x, maxIter, &ConvergenceError{Iterations: maxIter, Last: x, Residual: fn(x), Reason: "iteration cap reached"}
}

func centralDifference(fn Func) Func {
	return func(x float64) float64 {
		h := 1e-6 * math.Max(1, math.Abs(x))
		return (fn(x+h) - fn(x-h)) / (2 * h)
	}
}
