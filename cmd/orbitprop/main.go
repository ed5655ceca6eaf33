package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitprop/internal/config"
	"github.com/san-kum/orbitprop/internal/logging"
	"github.com/san-kum/orbitprop/internal/metrics"
	"github.com/san-kum/orbitprop/internal/propagation"
	"github.com/san-kum/orbitprop/internal/viz"
)

const earthRadius = 6.371e6

var (
	dataDir    string
	logLevel   string
	logFormat  string
	themeName  string
	configFile string
	preset     string

	propagator string
	mu         float64
	t0         float64
	tf         float64
	step       float64

	semiMajor   float64
	ecc         float64
	raan        float64
	argp        float64
	inc         float64
	nu          float64
	semiLatus   float64
	bodyRadius  float64
	sampleEvery int

	tol          float64
	maxIter      int
	fgConstraint bool
	stumpffTol   float64
	stumpffTerms int

	svgWidth  int
	svgHeight int
	parallel  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "orbitprop",
		Short:        "analytic two-body orbit propagation",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitprop", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.ThemeMission.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "propagate an orbit and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}
	addOrbitFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "propagate with every strategy and report their disagreement",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareStrategies,
	}
	addOrbitFlags(compareCmd)
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent propagations (0 = all)")

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "convert classical elements to a state and equinoctial elements",
		Args:  cobra.NoArgs,
		RunE:  convertElements,
	}
	addElementFlags(convertCmd)
	convertCmd.Flags().Float64Var(&mu, "mu", config.DefaultMu, "gravitational parameter (m^3/s^2)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot radius and speed of a run (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	elementsCmd := &cobra.Command{
		Use:   "elements [run_id]",
		Short: "print the classical elements along a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  elementsRun,
	}
	elementsCmd.Flags().IntVar(&sampleEvery, "every", 0, "print every Nth sample (0 = about 20 rows)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's states to stdout as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [file]",
		Short: "export a run's metadata and states to JSON (default: latest)",
		Args:  cobra.MaximumNArgs(2),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "render a run's trajectory to SVG (default: latest)",
		Args:  cobra.MaximumNArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().Float64Var(&bodyRadius, "body-radius", earthRadius, "central body radius to outline (m)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a run in the terminal (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().Float64Var(&bodyRadius, "body-radius", earthRadius, "central body radius to outline (m)")

	rootCmd.AddCommand(runCmd, compareCmd, convertCmd, presetsCmd, listCmd, plotCmd,
		elementsCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, replayCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addElementFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&semiMajor, "a", config.DefaultSemiMajorAxis, "semi-major axis (m, negative if hyperbolic)")
	cmd.Flags().Float64Var(&ecc, "e", 0, "eccentricity")
	cmd.Flags().Float64Var(&raan, "raan", 0, "right ascension of the ascending node (rad)")
	cmd.Flags().Float64Var(&argp, "argp", 0, "argument of periapsis (rad)")
	cmd.Flags().Float64Var(&inc, "inc", 0, "inclination (rad)")
	cmd.Flags().Float64Var(&nu, "nu", 0, "true anomaly (rad)")
	cmd.Flags().Float64Var(&semiLatus, "p", 0, "semi-latus rectum (m); >0 replaces --a")
}

func addOrbitFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	addElementFlags(cmd)
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	cmd.Flags().StringVar(&propagator, "propagator", def.Propagator, fmt.Sprintf("propagation strategy %v", propagation.Kinds()))
	cmd.Flags().Float64Var(&mu, "mu", def.Mu, "gravitational parameter (m^3/s^2)")
	cmd.Flags().Float64Var(&t0, "t0", def.T0, "initial epoch (s)")
	cmd.Flags().Float64Var(&tf, "tf", def.TF, "final time (s)")
	cmd.Flags().Float64Var(&step, "step", def.Step, "step size (s); 0 = (tf-t0)/10000")
	cmd.Flags().Float64Var(&tol, "tol", def.Solver.Tol, "Kepler solver tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", def.Solver.MaxIter, "Kepler solver iteration cap")
	cmd.Flags().BoolVar(&fgConstraint, "fg-constraint", def.Solver.FGConstraint, "derive gdot from f·gdot − fdot·g = 1")
	cmd.Flags().Float64Var(&stumpffTol, "stumpff-tol", def.Solver.StumpffTol, "|z| below which the Stumpff series is used")
	cmd.Flags().IntVar(&stumpffTerms, "stumpff-terms", def.Solver.StumpffTerms, "Stumpff series terms")
	cmd.Flags().Float64Var(&bodyRadius, "body-radius", earthRadius, "central body radius for the clearance metric (m, 0 = off)")
}

// runMetrics returns the metrics reported for a run.
func runMetrics(mu float64) []metrics.Metric {
	ms := metrics.Standard(mu)
	if bodyRadius > 0 {
		ms = append(ms, metrics.NewClearance(bodyRadius))
	}
	return ms
}

// loadConfig resolves the run configuration: defaults, then the preset
// (argument or --preset), then --config, then any flag set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("propagator") {
		cfg.Propagator = propagator
	}
	if flags.Changed("mu") {
		cfg.Mu = mu
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("tf") {
		cfg.TF = tf
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	applyElementFlags(cmd, &cfg.Elements)
	if flags.Changed("tol") {
		cfg.Solver.Tol = tol
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIter = maxIter
	}
	if flags.Changed("fg-constraint") {
		cfg.Solver.FGConstraint = fgConstraint
	}
	if flags.Changed("stumpff-tol") {
		cfg.Solver.StumpffTol = stumpffTol
	}
	if flags.Changed("stumpff-terms") {
		cfg.Solver.StumpffTerms = stumpffTerms
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func applyElementFlags(cmd *cobra.Command, el *config.ElementsConfig) {
	flags := cmd.Flags()
	if flags.Changed("a") {
		el.SemiMajorAxis = semiMajor
	}
	if flags.Changed("e") {
		el.Eccentricity = ecc
	}
	if flags.Changed("raan") {
		el.RAAN = raan
	}
	if flags.Changed("argp") {
		el.ArgPeriapsis = argp
	}
	if flags.Changed("inc") {
		el.Inclination = inc
	}
	if flags.Changed("nu") {
		el.TrueAnomaly = nu
	}
	if flags.Changed("p") {
		el.P = semiLatus
	}
}

func newLogger() (*slog.Logger, error) {
	return logging.New(os.Stderr, logLevel, logFormat)
}

func cliStyles() viz.Styles {
	return viz.NewStyles(viz.GetTheme(themeName))
}
