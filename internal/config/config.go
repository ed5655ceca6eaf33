package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/kepler"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/propagation"
)

const (
	DefaultMu            = orbit.EarthMu
	DefaultSemiMajorAxis = 7e6
)

type Config struct {
	Propagator string         `yaml:"propagator"`
	Mu         float64        `yaml:"mu"`
	T0         float64        `yaml:"t0"`
	TF         float64        `yaml:"tf"`
	Step       float64        `yaml:"step"`
	Elements   ElementsConfig `yaml:"elements"`
	Solver     SolverConfig   `yaml:"solver"`
}

// ElementsConfig describes the initial orbit. A positive P selects the
// semi-latus-rectum conversion and ignores A; it is the only way to start
// on an exactly parabolic orbit.
type ElementsConfig struct {
	elements.Classical `yaml:",inline"`
	P                  float64 `yaml:"p"`
}

type SolverConfig struct {
	Tol          float64 `yaml:"tol"`
	MaxIter      int     `yaml:"max_iter"`
	FGConstraint bool    `yaml:"fg_constraint"`
	StumpffTol   float64 `yaml:"stumpff_tol"`
	StumpffTerms int     `yaml:"stumpff_terms"`
}

func DefaultConfig() *Config {
	st := kepler.DefaultStumpff()
	return &Config{
		Propagator: propagation.DefaultKind,
		Mu:         DefaultMu,
		TF:         period(DefaultSemiMajorAxis),
		Elements: ElementsConfig{
			Classical: elements.Classical{SemiMajorAxis: DefaultSemiMajorAxis},
		},
		Solver: SolverConfig{
			Tol:          kepler.DefaultTolerance,
			MaxIter:      kepler.DefaultMaxIterations,
			FGConstraint: true,
			StumpffTol:   st.Tolerance,
			StumpffTerms: st.Terms,
		},
	}
}

// Load overlays the yaml file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the core cannot default.
func (c *Config) Validate() error {
	if !(c.Mu > 0) {
		return fmt.Errorf("%w: mu must be positive, got %g", orbit.ErrInvalidArgument, c.Mu)
	}
	if !slices.Contains(propagation.Kinds(), c.Propagator) {
		return fmt.Errorf("%w: unknown propagator %q", orbit.ErrInvalidArgument, c.Propagator)
	}
	return nil
}

// InitialState converts the configured elements to a state at epoch T0.
func (c *Config) InitialState() (orbit.State, error) {
	var (
		s   orbit.State
		err error
	)
	if c.Elements.P > 0 {
		s, err = elements.ClassicalToStateP(c.Elements.P, c.Elements.Classical, c.Mu)
	} else {
		s, err = elements.ClassicalToState(c.Elements.Classical, c.Mu)
	}
	if err != nil {
		return orbit.State{}, err
	}
	s.Epoch = c.T0
	return s, nil
}

// Options maps the solver section onto propagator options.
func (c *Config) Options() propagation.Options {
	return propagation.Options{
		SolverTolerance: c.Solver.Tol,
		MaxIterations:   c.Solver.MaxIter,
		FGConstraint:    c.Solver.FGConstraint,
		Stumpff: kepler.Stumpff{
			Tolerance: c.Solver.StumpffTol,
			Terms:     c.Solver.StumpffTerms,
		},
	}
}

// NewPropagator builds and configures the propagator described by c. The
// observers are attached before Configure so they see the initial sample.
func (c *Config) NewPropagator(opts propagation.Options, observers ...propagation.Observer) (*propagation.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	initial, err := c.InitialState()
	if err != nil {
		return nil, err
	}
	p, err := propagation.New(c.Propagator, opts)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		p.AddObserver(o)
	}
	if err := p.Configure(initial, c.TF, c.Step); err != nil {
		return nil, err
	}
	return p, nil
}

func period(a float64) float64 {
	t, err := elements.Period(a, DefaultMu)
	if err != nil {
		return 0
	}
	return t
}
