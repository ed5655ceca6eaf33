package propagation

import (
	"context"
	"log/slog"

	"github.com/san-kum/orbitprop/internal/kepler"
	"github.com/san-kum/orbitprop/internal/orbit"
)

// Phase is the lifecycle position of a propagator.
type Phase int

const (
	Unconfigured Phase = iota
	Configured
	Propagated
	Failed
)

func (p Phase) String() string {
	switch p {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	case Propagated:
		return "propagated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Propagator is the contract shared by every strategy.
type Propagator interface {
	Name() string
	Configure(initial orbit.State, finalTime, stepSize float64) error
	Propagate(ctx context.Context) error
	History() *orbit.History
	Phase() Phase
	AddObserver(o Observer)
}

// Observer is notified for every sample written to the history, including
// the initial condition at index 0.
type Observer interface {
	OnSample(index int, s orbit.Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index int, s orbit.Sample)

func (f ObserverFunc) OnSample(index int, s orbit.Sample) { f(index, s) }

// Options tunes the Kepler solve and the Lagrange coefficient evaluation.
// Each propagator keeps its own copy.
type Options struct {
	SolverTolerance float64
	MaxIterations   int
	// FGConstraint derives ġ from (g·ḟ + 1)/f instead of its independent
	// formula.
	FGConstraint bool
	Stumpff      kepler.Stumpff
	Logger       *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		SolverTolerance: kepler.DefaultTolerance,
		MaxIterations:   kepler.DefaultMaxIterations,
		FGConstraint:    true,
		Stumpff:         kepler.DefaultStumpff(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SolverTolerance <= 0 {
		o.SolverTolerance = d.SolverTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Stumpff.Terms <= 0 {
		o.Stumpff.Terms = d.Stumpff.Terms
	}
	if o.Stumpff.Tolerance <= 0 {
		o.Stumpff.Tolerance = d.Stumpff.Tolerance
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
