package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/gui"
	"github.com/san-kum/partsim/internal/optim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/vec"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

// buildConfig layers preset < config file < changed flags < --set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.FindPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (see `partsim presets`)", preset)
		}
	}

	if configFile != "" {
		if err := cfg.Overlay(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	for _, s := range sets {
		if err := cfg.ApplyAssignment(s); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetOr(fallback string) string {
	if preset == "" {
		return fallback
	}
	return preset
}

func label(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return cfg.Model
}

// signalContext is cancelled on interrupt so headless runs stop between
// frames.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var target *vec.Vec
	if cmd.Flags().Changed("target-x") || cmd.Flags().Changed("target-y") {
		t := vec.New2(targetX, targetY)
		target = &t
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %dD) for %d frames...\n", label(cfg), cfg.Model, cfg.Dim, frames)
	rec, run, err := automation.Execute(ctx, cfg, frames, target, logger)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", run.Elapsed.Round(time.Millisecond))
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.NewMetadata(cfg)
		meta.Frames = run.Frames
		meta.Duration = run.Time
		meta.Particles = run.Particles
		meta.Elapsed = run.Elapsed
		runID, err := st.Save(meta, cfg, rec)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d  steps: %d  simulated: %.2fs  particles: %d\n", run.Frames, run.Steps, run.Time, run.Particles)

	fmt.Println("\nmetrics:")
	final := rec.Final()
	for _, name := range rec.Names() {
		fmt.Printf("  %-16s %.6g\n", name, final[name])
	}
	return nil
}

// quietLogger keeps engine logs off the terminal while a TUI owns it.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunLive(label(cfg), *cfg, cfg.Capacity, quietLogger())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(label(cfg), *cfg, cfg.Capacity, logger)
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%s, %dD)\n\n", label(cfg), cfg.Model, cfg.Dim)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CAPACITY\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC\tUS/PARTICLE-STEP")

	for _, size := range benchSizes {
		sim, err := engine.New(size, *cfg, engine.WithLogger(logger))
		if err != nil {
			return err
		}
		// fill to capacity before timing
		for sim.Len() < size {
			if err := sim.Frame(nil); err != nil {
				return err
			}
			if cfg.Spawn.Rate <= 0 {
				break
			}
		}

		start := time.Now()
		res, err := sim.Run(context.Background(), benchFrames, nil)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(res.Steps) / elapsed.Seconds()
		perParticle := 0.0
		if n := res.Particles * res.Steps; n > 0 {
			perParticle = float64(elapsed.Microseconds()) / float64(n)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3f\n",
			size, res.Particles, res.Steps, elapsed.Round(time.Millisecond), stepsPerSec, perParticle)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := config.ListModels()
	if len(args) > 0 {
		models = args
	}
	for _, model := range models {
		presets := config.ListPresets(model)
		if len(presets) == 0 {
			fmt.Printf("no presets for model: %s\n", model)
			continue
		}
		fmt.Printf("presets for %s:\n", model)
		for _, p := range presets {
			cfg := config.GetPreset(model, p)
			fmt.Printf("  %-10s %dD  capacity %d\n", p, cfg.Dim, cfg.Capacity)
		}
	}
	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tDIM\tTIME\tFRAMES\tSIMULATED\tPARTICLES\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.2fs\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Dim,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Duration,
			run.Particles,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	plotted := 0
	for _, name := range series.Names {
		if metricName != "" && name != metricName {
			continue
		}
		graph := asciigraph.Plot(series.Values[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("unknown metric %q (have %v)", metricName, series.Names)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var svg string
	if len(args) == 1 {
		series, err := storage.New(dataDir).LoadSeries(args[0])
		if err != nil {
			return err
		}
		values, ok := series.Values[seriesMetric]
		if !ok {
			return fmt.Errorf("unknown metric %q (have %v)", seriesMetric, series.Names)
		}
		svg = export.SeriesToSVG(series.Times, values, svgWidth, svgWidth/3, string(viz.CurrentTheme.Primary))
	} else {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		sim, err := engine.New(cfg.Capacity, *cfg, engine.WithLogger(logger))
		if err != nil {
			return err
		}
		if _, err := sim.Run(ctx, frames, nil); err != nil {
			return err
		}
		svg = export.FrameToSVG(sim.Particles(), cfg.Extent(), svgWidth)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}

	if outPath == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", outPath)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, automation.Options{Logger: logger, Store: st})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN ID\tFRAMES\tPARTICLES\tKINETIC\tSTABILITY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4g\t%.3f\n",
			r.Name, r.RunID, r.Run.Frames, r.Run.Particles, r.Metrics["kinetic_energy"], r.Metrics["stability"])
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Preset:    presetOr("fountain"),
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  numSteps,
		Frames:    frames,
	}
	results, err := automation.RunSweep(ctx, sweep, automation.Options{Logger: logger, Workers: workers})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPARTICLES\tKINETIC\tMAX SPEED\tDENSITY\tSTABILITY\n", strings.ToUpper(paramName))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.4g\t%.4g\t%.4g\t%.3f\n",
			r.ParamValue, r.Particles, r.KineticEnergy, r.MaxSpeed, r.MeanDensity, r.Stability)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	mc := &automation.MonteCarloConfig{
		Preset:       presetOr("fountain"),
		Perturbation: perturb,
		NumTrials:    numTrials,
		Frames:       frames,
		Seed:         seed,
	}
	results, err := automation.RunMonteCarlo(ctx, mc, automation.Options{Logger: logger, Workers: workers})
	if err != nil {
		return err
	}

	stable := 0
	counts := make([]int, 0, len(results))
	for _, r := range results {
		if r.Stable {
			stable++
		}
		counts = append(counts, r.Particles)
	}
	sort.Ints(counts)

	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d (%.0f%%)\n", stable, 100*float64(stable)/float64(max(len(results), 1)))
	if len(counts) > 0 {
		fmt.Printf("particles: min %d  median %d  max %d\n", counts[0], counts[len(counts)/2], counts[len(counts)-1])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	name := metricName
	if name == "" {
		name = "kinetic_energy"
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	values, ok := series.Values[name]
	if !ok {
		return fmt.Errorf("unknown metric %q (have %v)", name, series.Names)
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data")
	}

	spec, err := analysis.Analyze(values, series.Times[1]-series.Times[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s  metric: %s\n\n", meta.Model, name)

	// the upper bins are mostly noise at frame rate sampling
	plotData := spec.Power[:max(len(spec.Power)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s), %.3f hz per column", name, spec.Resolution)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _, ok := spec.Dominant()
	if !ok {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	fmt.Printf("period: %.3f s\n", 1.0/freq)
	return nil
}

// parseGrid reads "name=lo:hi:n".
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad grid %q, want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad grid %q: count must be a positive integer", spec)
	}
	return strings.TrimSpace(name), optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := gs.Search(ctx, cfg, optim.Objective{Metric: seriesMetric, Maximize: maximize, Frames: frames}, logger)
	if err != nil {
		return err
	}

	goal := "min"
	if maximize {
		goal = "max"
	}
	fmt.Printf("%s %s = %.6g after %d runs\n", goal, seriesMetric, res.Value, res.Evaluations)
	for _, name := range names {
		fmt.Printf("  --set %s=%g\n", name, res.Params[name])
	}
	return nil
}
