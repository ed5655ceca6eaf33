package propagation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

func eccentricState(t *testing.T) (orbit.State, float64) {
	t.Helper()
	el := elements.Classical{SemiMajorAxis: 1e7, Eccentricity: 0.1, RAAN: 0.3, ArgPeriapsis: 0.5, Inclination: 0.4}
	s, err := elements.ClassicalToState(el, orbit.EarthMu)
	if err != nil {
		t.Fatal(err)
	}
	period, err := elements.Period(el.SemiMajorAxis, orbit.EarthMu)
	if err != nil {
		t.Fatal(err)
	}
	return s, period
}

func TestEngine_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, period := eccentricState(t)

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			p, err := New(kind, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if p.Phase() != Unconfigured {
				t.Fatalf("initial phase = %s", p.Phase())
			}
			if err := p.Propagate(ctx); !errors.Is(err, orbit.ErrLifecycle) {
				t.Errorf("Propagate before Configure: err = %v, want ErrLifecycle", err)
			}

			if err := p.Configure(s, period/10, 0); err != nil {
				t.Fatal(err)
			}
			if p.Phase() != Configured {
				t.Errorf("phase = %s, want configured", p.Phase())
			}
			if err := p.Configure(s, period, 0); !errors.Is(err, orbit.ErrLifecycle) {
				t.Errorf("second Configure: err = %v, want ErrLifecycle", err)
			}

			if err := p.Propagate(ctx); err != nil {
				t.Fatal(err)
			}
			if p.Phase() != Propagated {
				t.Errorf("phase = %s, want propagated", p.Phase())
			}
			if !p.History().Sealed() {
				t.Error("history not sealed after propagation")
			}
			if err := p.Propagate(ctx); !errors.Is(err, orbit.ErrLifecycle) {
				t.Errorf("second Propagate: err = %v, want ErrLifecycle", err)
			}
		})
	}
}

func TestEngine_DefaultStep(t *testing.T) {
	s, period := eccentricState(t)
	p := NewUniversal(DefaultOptions())
	if err := p.Configure(s, s.Epoch+period, 0); err != nil {
		t.Fatal(err)
	}
	if got, want := p.History().Cap(), DefaultStepDivisor+1; got != want {
		t.Errorf("history capacity = %d, want %d", got, want)
	}
	if got, want := p.StepSize(), period/DefaultStepDivisor; got != want {
		t.Errorf("step size = %g, want %g", got, want)
	}
	if err := p.Propagate(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := p.History()
	if h.Len() != h.Cap() {
		t.Errorf("history len %d, cap %d", h.Len(), h.Cap())
	}
	for i := 0; i < h.Len(); i += 1000 {
		if want := s.Epoch + float64(i)*p.StepSize(); h.At(i).Time != want {
			t.Errorf("sample %d time = %g, want %g", i, h.At(i).Time, want)
		}
	}
}

func TestEngine_ZeroStep(t *testing.T) {
	s, _ := eccentricState(t)
	s.Epoch = 42

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			p, _ := New(kind, DefaultOptions())
			if err := p.Configure(s, s.Epoch, 0); err != nil {
				t.Fatal(err)
			}
			if err := p.Propagate(context.Background()); err != nil {
				t.Fatal(err)
			}
			h := p.History()
			if h.Len() != 1 {
				t.Fatalf("history len = %d, want 1", h.Len())
			}
			if got := h.At(0); got != s.Sample() {
				t.Errorf("sample = %+v, want %+v", got, s.Sample())
			}
		})
	}
}

func TestEngine_ConfigureRejects(t *testing.T) {
	s, period := eccentricState(t)

	tests := []struct {
		name    string
		state   orbit.State
		tf      float64
		step    float64
		wantErr error
	}{
		{"final before initial", s, -10, 0, orbit.ErrInvalidArgument},
		{"negative step", s, period, -1, orbit.ErrInvalidArgument},
		{"NaN step", s, period, math.NaN(), orbit.ErrInvalidArgument},
		{"NaN final time", s, math.NaN(), 10, orbit.ErrInvalidArgument},
		{"zero radius", orbit.State{Velocity: md3.Vec{Y: 1}, Mu: orbit.EarthMu}, period, 0, orbit.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUniversal(DefaultOptions())
			err := p.Configure(tt.state, tt.tf, tt.step)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if p.Phase() != Unconfigured {
				t.Errorf("phase = %s after rejected Configure", p.Phase())
			}
		})
	}
}

func TestClassical_RejectsParabolic(t *testing.T) {
	// v² = 2μ/r exactly.
	s := orbit.State{Position: md3.Vec{X: 2}, Velocity: md3.Vec{Y: 1}, Mu: 1}

	c := NewClassical(DefaultOptions())
	if err := c.Configure(s, 10, 1); !errors.Is(err, orbit.ErrInvalidElement) {
		t.Fatalf("classical: err = %v, want ErrInvalidElement", err)
	}

	u := NewUniversal(DefaultOptions())
	if err := u.Configure(s, 10, 1); err != nil {
		t.Fatal(err)
	}
	if err := u.Propagate(context.Background()); err != nil {
		t.Fatalf("universal on parabola: %v", err)
	}
	for i := 0; i < u.History().Len(); i++ {
		st := u.History().At(i).State(1)
		if math.Abs(st.SpecificEnergy()) > 1e-10 {
			t.Errorf("sample %d energy = %g, want 0", i, st.SpecificEnergy())
		}
	}
}

func TestEngine_Cancellation(t *testing.T) {
	s, period := eccentricState(t)

	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := NewUniversal(DefaultOptions())
		if err := p.Configure(s, period, period/100); err != nil {
			t.Fatal(err)
		}
		err := p.Propagate(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		var se *orbit.StepError
		if !errors.As(err, &se) || se.Step != 1 {
			t.Errorf("err = %#v, want StepError at step 1", err)
		}
		if p.Phase() != Failed || p.History().Len() != 1 || !p.History().Sealed() {
			t.Errorf("phase=%s len=%d sealed=%v", p.Phase(), p.History().Len(), p.History().Sealed())
		}
		if err := p.Propagate(context.Background()); !errors.Is(err, orbit.ErrLifecycle) {
			t.Errorf("Propagate after failure: err = %v, want ErrLifecycle", err)
		}
	})

	t.Run("mid run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := NewClassical(DefaultOptions())
		p.AddObserver(ObserverFunc(func(i int, _ orbit.Sample) {
			if i == 5 {
				cancel()
			}
		}))
		if err := p.Configure(s, period, period/100); err != nil {
			t.Fatal(err)
		}
		if err := p.Propagate(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if got := p.History().Len(); got != 6 {
			t.Errorf("history len = %d, want 6", got)
		}
	})
}

func TestEngine_NonConvergence(t *testing.T) {
	s, period := eccentricState(t)
	opts := DefaultOptions()
	opts.MaxIterations = 1
	opts.SolverTolerance = 1e-15

	p := NewUniversal(opts)
	if err := p.Configure(s, period, period/10); err != nil {
		t.Fatal(err)
	}
	err := p.Propagate(context.Background())
	if !errors.Is(err, orbit.ErrNonConvergence) {
		t.Fatalf("err = %v, want ErrNonConvergence", err)
	}
	var se *orbit.StepError
	if !errors.As(err, &se) {
		t.Fatalf("err is %T, want *orbit.StepError", err)
	}
	if se.Step != 1 || se.Time != period/10 {
		t.Errorf("StepError = step %d t=%g", se.Step, se.Time)
	}
	if p.Phase() != Failed || !p.History().Sealed() {
		t.Errorf("phase=%s sealed=%v", p.Phase(), p.History().Sealed())
	}
}

func TestEngine_Observers(t *testing.T) {
	s, period := eccentricState(t)
	p := NewUniversal(DefaultOptions())

	var indices []int
	p.AddObserver(ObserverFunc(func(i int, _ orbit.Sample) { indices = append(indices, i) }))
	if err := p.Configure(s, period, period/20); err != nil {
		t.Fatal(err)
	}
	if err := p.Propagate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(indices) != p.History().Len() {
		t.Fatalf("observed %d samples, history has %d", len(indices), p.History().Len())
	}
	for i, idx := range indices {
		if i != idx {
			t.Fatalf("observation %d has index %d", i, idx)
		}
	}
}

func TestConservation(t *testing.T) {
	s, period := eccentricState(t)
	e0 := s.SpecificEnergy()
	h0 := s.AngularMomentum()

	for _, kind := range Kinds() {
		for _, constraint := range []bool{true, false} {
			opts := DefaultOptions()
			opts.FGConstraint = constraint
			name := kind
			if !constraint {
				name += "/independent"
			}
			t.Run(name, func(t *testing.T) {
				p, _ := New(kind, opts)
				if err := p.Configure(s, 2*period, period/500); err != nil {
					t.Fatal(err)
				}
				if err := p.Propagate(context.Background()); err != nil {
					t.Fatal(err)
				}
				for _, sm := range p.History().Samples() {
					st := sm.State(s.Mu)
					if d := math.Abs(st.SpecificEnergy()-e0) / math.Abs(e0); d > 1e-6 {
						t.Fatalf("t=%g energy drift %g", sm.Time, d)
					}
					if d := md3.Norm(md3.Sub(st.AngularMomentum(), h0)) / md3.Norm(h0); d > 1e-6 {
						t.Fatalf("t=%g angular momentum drift %g", sm.Time, d)
					}
				}
			})
		}
	}
}

func TestResolveGDot(t *testing.T) {
	if got := resolveGDot(true, 0.5, 2, 3, -1); got != (2*3+1)/0.5 {
		t.Errorf("constraint branch = %g", got)
	}
	if got := resolveGDot(true, 1e-4, 2, 3, -1); got != -1 {
		t.Errorf("near-zero f should use independent formula, got %g", got)
	}
	if got := resolveGDot(false, 0.5, 2, 3, -1); got != -1 {
		t.Errorf("constraint disabled: got %g", got)
	}
}

func TestRegistry(t *testing.T) {
	p, err := New("", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != KindUniversal {
		t.Errorf("default kind = %s", p.Name())
	}
	if o := p.Options(); o.MaxIterations != 50 || o.SolverTolerance != 1e-8 || o.Stumpff.Terms != 10 || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}
	if _, err := New("cowell", DefaultOptions()); !errors.Is(err, orbit.ErrInvalidArgument) {
		t.Errorf("unknown kind: err = %v", err)
	}
	if got := Kinds(); len(got) != 2 || got[0] != KindClassical || got[1] != KindUniversal {
		t.Errorf("Kinds() = %v", got)
	}
}
