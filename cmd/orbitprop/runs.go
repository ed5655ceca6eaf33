package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/export"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/storage"
	"github.com/san-kum/orbitprop/internal/viz"
)

// runAndFile splits the optional [run_id] [file] arguments. Missing values
// come back empty.
func runAndFile(args []string) (runID, file string) {
	if len(args) > 0 {
		runID = args[0]
	}
	if len(args) > 1 {
		file = args[1]
	}
	return runID, file
}

// loadRun opens the run named by args[0], or the latest run when it is
// absent or empty.
func loadRun(args []string) (*storage.RunMetadata, *orbit.History, error) {
	st := storage.New(dataDir)
	runID, _ := runAndFile(args)
	if runID == "" {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = latest
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return nil, nil, err
	}
	if h.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, h, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSPAN\tSTEP\tSAMPLES\tSTATUS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4gs\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TF-run.T0,
			run.Step,
			run.Samples,
			run.Status,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args)
	if err != nil {
		return err
	}

	radius := make([]float64, h.Len())
	speed := make([]float64, h.Len())
	for i := range radius {
		s := h.At(i).State(meta.Mu)
		radius[i] = s.Radius() / 1e3
		speed[i] = s.Speed() / 1e3
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("propagator: %s\n", meta.Propagator)
	fmt.Printf("samples: %d\n\n", h.Len())

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{radius, "radius (km) vs sample"},
		{speed, "speed (km/s) vs sample"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func elementsRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args)
	if err != nil {
		return err
	}
	every := sampleEvery
	if every <= 0 {
		every = max(1, h.Len()/20)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "T (s)\tA (km)\tE\tI (°)\tRAAN (°)\tARGP (°)\tNU (°)\t")
	for i := 0; i < h.Len(); i += every {
		s := h.At(i)
		el, err := elements.StateToClassical(s.State(meta.Mu))
		if err != nil {
			fmt.Fprintf(w, "%.1f\t%v\t\t\t\t\t\t\n", s.Time, err)
			continue
		}
		fmt.Fprintf(w, "%.1f\t%.3f\t%.8f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			s.Time,
			el.SemiMajorAxis/1e3,
			el.Eccentricity,
			degrees(el.Inclination),
			degrees(el.RAAN),
			degrees(el.ArgPeriapsis),
			degrees(el.TrueAnomaly),
		)
	}
	return w.Flush()
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, h)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID, path := runAndFile(args)
	meta, h, err := loadRun([]string{runID})
	if err != nil {
		return err
	}
	if path == "" {
		return storage.WriteJSON(os.Stdout, *meta, h)
	}
	if err := storage.ExportJSON(path, *meta, h); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, path := runAndFile(args)
	meta, h, err := loadRun([]string{runID})
	if err != nil {
		return err
	}
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := export.WriteSVG(path, h, viz.NewCamera(), bodyRadius, svgWidth, svgHeight, viz.GetTheme(themeName)); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, path)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args)
	if err != nil {
		return err
	}
	model := viz.NewReplay(meta.ID, h, meta.Mu).
		WithTheme(themeName).
		WithBody(bodyRadius)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
