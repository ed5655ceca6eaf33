package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitprop/internal/config"
	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/metrics"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/propagation"
	"github.com/san-kum/orbitprop/internal/storage"
	"github.com/san-kum/orbitprop/internal/viz"
	"github.com/soypat/geometry/md3"
)

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	if err := elements.Degeneracy(cfg.Elements.Classical); err != nil {
		logger.Warn("initial elements are degenerate", "error", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	opts := cfg.Options()
	opts.Logger = logger
	collector := metrics.NewObserver(runMetrics(cfg.Mu)...)
	p, err := cfg.NewPropagator(opts, collector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	label := name
	if label == "" {
		label = "custom"
	}
	fmt.Printf("propagating %s orbit with %s...\n", label, p.Name())
	start := time.Now()
	propErr := p.Propagate(ctx)
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:     name,
		Propagator: p.Name(),
		Mu:         cfg.Mu,
		T0:         cfg.T0,
		TF:         cfg.TF,
		Step:       p.StepSize(),
		Elements:   cfg.Elements.Classical,
		P:          cfg.Elements.P,
		Status:     p.Phase().String(),
		Metrics:    collector.Values(),
	}
	runID, err := st.Save(meta, p.History())
	if err != nil {
		return errors.Join(propErr, err)
	}
	logger.Info("run saved", "run_id", runID, "status", meta.Status)

	printSummary(runID, p, elapsed, meta.Metrics)
	if propErr != nil {
		return fmt.Errorf("propagation stopped early: %w", propErr)
	}
	return nil
}

func printSummary(runID string, p *propagation.Engine, elapsed time.Duration, values map[string]float64) {
	s := cliStyles()
	h := p.History()

	lines := []string{
		s.Title.Render("run " + runID),
		s.Row("propagator", p.Name()),
		s.Row("status", p.Phase().String()),
		s.Row("samples", fmt.Sprintf("%d", h.Len())),
		s.Row("step", fmt.Sprintf("%.6g s", p.StepSize())),
		s.Row("elapsed", elapsed.Round(time.Microsecond).String()),
	}
	if h.Len() > 0 {
		last := h.Last()
		lines = append(lines,
			s.Row("final t", fmt.Sprintf("%.3f s", last.Time)),
			s.Row("final r", fmt.Sprintf("%.3f km", md3.Norm(last.Position)/1e3)),
		)
	}
	lines = append(lines, "", s.Label.Render("metrics"))
	lines = append(lines, metricLines(s, values)...)
	fmt.Println(s.Panel.Render(strings.Join(lines, "\n")))
}

func metricLines(s viz.Styles, values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		v := values[name]
		text := s.Value.Render(fmt.Sprintf("%.6g", v))
		if strings.HasSuffix(name, "_drift") {
			text = s.Drift(v)
		}
		lines = append(lines, "  "+s.Label.Render(fmt.Sprintf("%-24s", name))+" "+text)
	}
	return lines
}

func compareStrategies(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}

	opts := cfg.Options()
	opts.Logger = logger
	kinds := propagation.Kinds()
	jobs := make([]propagation.Job, len(kinds))
	for i, kind := range kinds {
		jobs[i] = propagation.Job{
			Name:      kind,
			Kind:      kind,
			Options:   opts,
			Initial:   initial,
			FinalTime: cfg.TF,
			StepSize:  cfg.Step,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := propagation.RunBatch(ctx, jobs, parallel)

	s := cliStyles()
	title := "compare"
	if name != "" {
		title += " " + name
	}
	lines := []string{s.Title.Render(title)}

	var ok []*orbit.History
	for _, r := range results {
		if r.Err != nil {
			lines = append(lines, s.Row(r.Job.Name, s.Bad.Render(r.Err.Error())))
			continue
		}
		h := r.Engine.History()
		values := metrics.Evaluate(h, runMetrics(cfg.Mu)...)
		lines = append(lines, s.Row(r.Job.Name, fmt.Sprintf("%d samples", h.Len())))
		lines = append(lines, metricLines(s, values)...)
		ok = append(ok, h)
	}

	if len(ok) >= 2 {
		maxPos, maxVel := disagreement(ok[0], ok[1])
		lines = append(lines, "",
			s.Row("max Δr", fmt.Sprintf("%.6g m", maxPos)),
			s.Row("max Δv", fmt.Sprintf("%.6g m/s", maxVel)),
		)
	}
	fmt.Println(s.Panel.Render(strings.Join(lines, "\n")))

	for _, r := range results {
		if r.Err != nil && errors.Is(r.Err, context.Canceled) {
			return r.Err
		}
	}
	return nil
}

// disagreement returns the largest position and velocity difference between
// samples of equal index.
func disagreement(a, b *orbit.History) (pos, vel float64) {
	n := min(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		sa, sb := a.At(i), b.At(i)
		pos = math.Max(pos, md3.Norm(md3.Sub(sa.Position, sb.Position)))
		vel = math.Max(vel, md3.Norm(md3.Sub(sa.Velocity, sb.Velocity)))
	}
	return pos, vel
}

func listPresets(cmd *cobra.Command, args []string) error {
	s := cliStyles()
	fmt.Println(s.Title.Render("presets"))
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		el := cfg.Elements.Classical
		desc := fmt.Sprintf("%-10s a=%.4g e=%.6g tf=%.6g", cfg.Propagator, el.SemiMajorAxis, el.Eccentricity, cfg.TF)
		if cfg.Elements.P > 0 {
			desc = fmt.Sprintf("%-10s p=%.4g e=%.6g tf=%.6g", cfg.Propagator, cfg.Elements.P, el.Eccentricity, cfg.TF)
		}
		fmt.Println("  " + s.Row(name, desc))
	}
	return nil
}
