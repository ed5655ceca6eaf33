package propagation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

// DefaultStepDivisor splits the time span when Configure receives a zero
// step size.
const DefaultStepDivisor = 10000

// kernel is a strategy's pure step function over a fixed epoch state.
type kernel interface {
	name() string
	// prepare derives the epoch constants from the initial state.
	prepare(initial orbit.State, opts Options) error
	// seed is the solver guess for the first step of size dt.
	seed(dt float64) float64
	// step evaluates the state dt after epoch and returns the solved
	// anomaly or universal variable for the next step's seed.
	step(dt, seed float64) (pos, vel md3.Vec, next float64, err error)
}

// Engine runs the shared configure/propagate lifecycle for one strategy.
type Engine struct {
	k    kernel
	opts Options

	phase     Phase
	initial   orbit.State
	finalTime float64
	stepSize  float64
	history   *orbit.History
	observers []Observer
}

func newEngine(k kernel, opts Options) *Engine {
	return &Engine{k: k, opts: opts.withDefaults()}
}

func (e *Engine) Name() string            { return e.k.name() }
func (e *Engine) Phase() Phase            { return e.phase }
func (e *Engine) History() *orbit.History { return e.history }
func (e *Engine) Options() Options        { return e.opts }
func (e *Engine) StepSize() float64       { return e.stepSize }

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Configure validates the run, allocates the history and records the initial
// sample. A zero stepSize selects (finalTime − initial.Epoch)/DefaultStepDivisor.
// A rejected Configure leaves the engine Unconfigured.
func (e *Engine) Configure(initial orbit.State, finalTime, stepSize float64) error {
	if e.phase != Unconfigured {
		return fmt.Errorf("%w: configure called while %s", orbit.ErrLifecycle, e.phase)
	}
	if err := initial.Validate(); err != nil {
		return err
	}
	if math.IsNaN(stepSize) || math.IsInf(stepSize, 0) || stepSize < 0 {
		return fmt.Errorf("%w: step size must be finite and non-negative, got %g", orbit.ErrInvalidArgument, stepSize)
	}
	if stepSize == 0 {
		stepSize = (finalTime - initial.Epoch) / DefaultStepDivisor
	}
	size, err := orbit.HistorySize(initial.Epoch, finalTime, stepSize)
	if err != nil {
		return err
	}
	if err := e.k.prepare(initial, e.opts); err != nil {
		return fmt.Errorf("%s: %w", e.k.name(), err)
	}

	e.initial = initial
	e.finalTime = finalTime
	e.stepSize = stepSize
	e.history = orbit.NewHistory(size)
	first := initial.Sample()
	if err := e.history.Append(first); err != nil {
		return err
	}
	e.phase = Configured
	e.notify(0, first)

	e.opts.Logger.Debug("propagator configured",
		"propagator", e.k.name(),
		"samples", size,
		"step", stepSize,
		"t0", initial.Epoch,
		"tf", finalTime)
	return nil
}

// Propagate fills the history up to its capacity. ctx is checked once per
// step. Any failure seals the partial history and moves the engine to
// Failed.
func (e *Engine) Propagate(ctx context.Context) error {
	if e.phase != Configured {
		return fmt.Errorf("%w: propagate called while %s", orbit.ErrLifecycle, e.phase)
	}

	start := time.Now()
	t0, h := e.initial.Epoch, e.stepSize
	n := e.history.Cap()
	seed := e.k.seed(h)

	for k := 1; k < n; k++ {
		dt := float64(k) * h
		t := t0 + dt

		select {
		case <-ctx.Done():
			return e.fail(&orbit.StepError{Step: k, Time: t, Wrapped: ctx.Err()})
		default:
		}

		pos, vel, next, err := e.k.step(dt, seed)
		if err != nil {
			return e.fail(&orbit.StepError{Step: k, Time: t, Wrapped: err})
		}
		seed = next

		s := orbit.Sample{Time: t, Position: pos, Velocity: vel}
		if err := e.history.Append(s); err != nil {
			return e.fail(&orbit.StepError{Step: k, Time: t, Wrapped: err})
		}
		e.notify(k, s)
	}

	e.history.Seal()
	e.phase = Propagated
	e.opts.Logger.Debug("propagation finished",
		"propagator", e.k.name(),
		"samples", e.history.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (e *Engine) fail(err error) error {
	e.history.Seal()
	e.phase = Failed
	e.opts.Logger.Debug("propagation failed",
		"propagator", e.k.name(),
		"samples", e.history.Len(),
		"error", err)
	return err
}

func (e *Engine) notify(i int, s orbit.Sample) {
	for _, o := range e.observers {
		o.OnSample(i, s)
	}
}
