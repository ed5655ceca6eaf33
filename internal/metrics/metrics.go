// Package metrics measures how well a propagated trajectory preserves the
// two-body invariants.
package metrics

import (
	"github.com/san-kum/orbitprop/internal/orbit"
)

// Metric accumulates one scalar over a sequence of samples.
type Metric interface {
	Name() string
	Observe(s orbit.Sample)
	Value() float64
	Reset()
}

// Observer feeds every propagated sample into a set of metrics. It
// satisfies propagation.Observer.
type Observer struct {
	Metrics []Metric
}

func NewObserver(ms ...Metric) *Observer {
	return &Observer{Metrics: ms}
}

func (o *Observer) OnSample(_ int, s orbit.Sample) {
	for _, m := range o.Metrics {
		m.Observe(s)
	}
}

// Values returns each metric's value keyed by name.
func (o *Observer) Values() map[string]float64 {
	return Collect(o.Metrics...)
}

// Collect returns each metric's value keyed by name.
func Collect(ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Evaluate resets the metrics, replays a finished history through them and
// returns their values.
func Evaluate(h *orbit.History, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < h.Len(); i++ {
		s := h.At(i)
		for _, m := range ms {
			m.Observe(s)
		}
	}
	return Collect(ms...)
}

// Standard returns the conservation metrics reported for every run.
func Standard(mu float64) []Metric {
	return []Metric{
		NewEnergyDrift(mu),
		NewAngularMomentumDrift(),
		NewRadiusRange(),
	}
}
