package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// simulation selection, shared by run/live/gui/bench/export-svg
	preset     string
	configFile string
	capacity   int
	sets       []string
	seed       int64
	dt         float64
	integrator string
	frames     int

	// run
	targetX, targetY float64
	noSave           bool

	// live
	theme string

	// plot / export-svg
	metricName   string
	seriesMetric string
	outPath      string
	svgWidth     int

	// sweep / montecarlo
	paramName string
	paramMin  float64
	paramMax  float64
	numSteps  int
	numTrials int
	perturb   float64
	workers   int

	// bench
	benchSizes  []int
	benchFrames int

	// tune
	tuneParams []string
	maximize   bool
)

// main registers commands and flags and opens the terminal preset picker
// when no subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "partsim",
		Short:         "particle simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(0, log.New(io.Discard))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headlessly and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	runCmd.Flags().Float64Var(&targetX, "target-x", 0, "attractor target x")
	runCmd.Flags().Float64Var(&targetY, "target-y", 0, "attractor target y")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a simulation in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	simFlags(guiCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput at several capacities",
		Args:  cobra.NoArgs,
		RunE:  benchModel,
	}
	simFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchFrames, "bench-frames", 120, "frames per measurement")
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{250, 500, 1000, 1500}, "capacities to measure")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run metrics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and metrics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a metric of a recorded run, or the final frame of a new run, as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	simFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate before rendering")
	exportSVGCmd.Flags().StringVar(&seriesMetric, "metric", "kinetic_energy", "metric to plot for a recorded run")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 1200, "image width in pixels")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter of a preset",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "preset to sweep (default fountain)")
	sweepCmd.Flags().StringVar(&paramName, "param", "spawn.rate", "parameter name")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 100, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 600, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 6, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run seed and spawn-velocity perturbed trials of a preset",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&preset, "preset", "", "preset to perturb (default fountain)")
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 20, "spawn velocity perturbation")
	monteCarloCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded metric",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "", "metric to analyze (default kinetic_energy)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the best final metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	simFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=lo:hi:n grid for one parameter (repeatable)")
	tuneCmd.Flags().StringVar(&seriesMetric, "metric", "kinetic_energy", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")
	tuneCmd.Flags().IntVar(&frames, "frames", 600, "frames per evaluation")

	for _, c := range []*cobra.Command{sweepCmd, monteCarloCmd} {
		c.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all CPUs)")
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, benchCmd, presetsCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, scenarioCmd, sweepCmd, monteCarloCmd,
		analyzeCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// simFlags registers the flags that select and adjust a configuration.
func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "preset name (see presets)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "maximum particle count")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a parameter, name=value (repeatable)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator ("+strings.Join(particle.ListIntegrators(), ", ")+")")
}

func setupLogger() error {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "partsim",
	})
	return nil
}
