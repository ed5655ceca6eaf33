package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
)

func TestState_Validate(t *testing.T) {
	good := State{Position: md3.Vec{X: 7e6}, Velocity: md3.Vec{Y: 7.5e3}, Mu: EarthMu}

	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"normal", good, true},
		{"zero radius", State{Velocity: md3.Vec{Y: 1}, Mu: EarthMu}, false},
		{"zero mu", State{Position: md3.Vec{X: 1}}, false},
		{"negative mu", State{Position: md3.Vec{X: 1}, Mu: -1}, false},
		{"NaN position", State{Position: md3.Vec{X: math.NaN()}, Mu: EarthMu}, false},
		{"Inf velocity", State{Position: md3.Vec{X: 1}, Velocity: md3.Vec{Z: math.Inf(1)}, Mu: EarthMu}, false},
		{"NaN epoch", State{Position: md3.Vec{X: 1}, Epoch: math.NaN(), Mu: EarthMu}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, want valid=%v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestState_Invariants(t *testing.T) {
	s := State{Position: md3.Vec{X: 7e6}, Velocity: md3.Vec{Y: math.Sqrt(EarthMu / 7e6)}, Mu: EarthMu}

	if got, want := s.InverseSemiMajorAxis(), 1/7e6; math.Abs(got-want) > 1e-18 {
		t.Errorf("InverseSemiMajorAxis() = %g, want %g", got, want)
	}
	if got, want := s.SpecificEnergy(), -EarthMu/(2*7e6); math.Abs(got-want)/math.Abs(want) > 1e-12 {
		t.Errorf("SpecificEnergy() = %g, want %g", got, want)
	}
	h := s.AngularMomentum()
	if h.X != 0 || h.Y != 0 || h.Z <= 0 {
		t.Errorf("AngularMomentum() = %v, want +z", h)
	}
}

func TestHistorySize(t *testing.T) {
	tests := []struct {
		name     string
		t0, tf   float64
		step     float64
		expected int
		wantErr  bool
	}{
		{"zero span", 5, 5, 0, 1, false},
		{"exact", 0, 10, 1, 11, false},
		{"fractional", 0, 10, 3, 4, false},
		{"default divisor", 0, 2914.2667, 2914.2667 / 10000, 10001, false},
		{"backwards", 10, 0, 1, 0, true},
		{"zero step", 0, 10, 0, 0, true},
		{"negative step", 0, 10, -1, 0, true},
		{"NaN", 0, math.NaN(), 1, 0, true},
		{"at sample limit", 0, MaxSamples - 1, 1, MaxSamples, false},
		{"too many samples", 0, 1e8, 1, 0, true},
		{"tiny step", 0, 1, 1e-300, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := HistorySize(tt.t0, tt.tf, tt.step)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.expected {
				t.Errorf("HistorySize = %d, want %d", n, tt.expected)
			}
		})
	}
}

func TestHistory_AppendAndSeal(t *testing.T) {
	h := NewHistory(2)

	if err := h.Append(Sample{Time: 0}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := h.Append(Sample{Time: 1}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := h.Append(Sample{Time: 2}); !errors.Is(err, ErrHistoryFull) {
		t.Errorf("expected ErrHistoryFull past capacity, got %v", err)
	}

	if h.Len() != 2 || h.Cap() != 2 {
		t.Errorf("Len/Cap = %d/%d, want 2/2", h.Len(), h.Cap())
	}
	if h.Last().Time != 1 {
		t.Errorf("Last().Time = %f, want 1", h.Last().Time)
	}

	samples := h.Samples()
	samples[0].Time = 99
	if h.At(0).Time != 0 {
		t.Error("Samples did not return an independent copy")
	}

	open := NewHistory(3)
	open.Seal()
	if err := open.Append(Sample{}); !errors.Is(err, ErrHistoryFull) {
		t.Errorf("expected sealed history to reject append, got %v", err)
	}
	if !open.Sealed() {
		t.Error("Sealed() = false after Seal")
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Wrapped: ErrNonConvergence}
	expected := "step 150 (t=1.5000): orbit: solver did not converge"
	if err.Error() != expected {
		t.Errorf("StepError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrNonConvergence) {
		t.Error("StepError does not unwrap to its cause")
	}
}
