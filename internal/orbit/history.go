package orbit

import (
	"fmt"
	"math"
)

// History is a fixed-capacity, append-only trajectory buffer. Index 0 holds
// the initial condition. Once sealed it rejects further appends.
type History struct {
	samples []Sample
	sealed  bool
}

// NewHistory allocates a history able to hold capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{samples: make([]Sample, 0, capacity)}
}

// MaxSamples bounds the capacity HistorySize will grant.
const MaxSamples = 10_000_000

// HistorySize returns floor(span/step)+1, the number of samples needed to go
// from t0 to tf in steps of step. A relative guard absorbs division error so
// that a step of span/N always yields N+1 samples.
func HistorySize(t0, tf, step float64) (int, error) {
	span := tf - t0
	switch {
	case math.IsNaN(span) || math.IsInf(span, 0):
		return 0, fmt.Errorf("%w: non-finite time span", ErrInvalidArgument)
	case span < 0:
		return 0, fmt.Errorf("%w: final time %g before initial time %g", ErrInvalidArgument, tf, t0)
	case span == 0:
		return 1, nil
	case !(step > 0) || math.IsInf(step, 0):
		return 0, fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidArgument, step)
	}
	n := math.Floor(span/step*(1+1e-9)) + 1
	if n > MaxSamples {
		return 0, fmt.Errorf("%w: %g samples requested, limit is %d", ErrInvalidArgument, n, MaxSamples)
	}
	return int(n), nil
}

// Append adds a sample. It fails with ErrHistoryFull when the buffer is at
// capacity or sealed.
func (h *History) Append(s Sample) error {
	if h.sealed {
		return fmt.Errorf("%w: sealed", ErrHistoryFull)
	}
	if len(h.samples) == cap(h.samples) {
		return fmt.Errorf("%w: capacity %d", ErrHistoryFull, cap(h.samples))
	}
	h.samples = append(h.samples, s)
	return nil
}

// Seal makes the history immutable.
func (h *History) Seal() { h.sealed = true }

func (h *History) Sealed() bool { return h.sealed }
func (h *History) Len() int     { return len(h.samples) }
func (h *History) Cap() int     { return cap(h.samples) }

// At returns the i-th sample. It panics when i is out of range, like a slice
// index.
func (h *History) At(i int) Sample { return h.samples[i] }

// Last returns the most recent sample, or the zero Sample if empty.
func (h *History) Last() Sample {
	if len(h.samples) == 0 {
		return Sample{}
	}
	return h.samples[len(h.samples)-1]
}

// Samples returns a copy of the stored samples.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Times returns the sample times.
func (h *History) Times() []float64 {
	out := make([]float64, len(h.samples))
	for i, s := range h.samples {
		out[i] = s.Time
	}
	return out
}
