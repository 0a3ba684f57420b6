// Package automation runs simulations headlessly in batches: YAML
// scenarios, parameter sweeps and seed-perturbed Monte Carlo trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/vec"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one headless run. Preset and Config are layered in that
// order, then Params override single constants.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Frames   int                `yaml:"frames"`
	Capacity int                `yaml:"capacity"`
	Seed     *int64             `yaml:"seed"`
	Target   *config.Vec3       `yaml:"target"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// Options are shared by every batch runner. A nil Logger discards output; a
// nil Store skips recording. Workers bounds how many sweep values or Monte
// Carlo trials run at once; zero means GOMAXPROCS. Scenario steps always run
// in order.
type Options struct {
	Logger  *log.Logger
	Store   *storage.Store
	Workers int
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// StepResult summarises one scenario step.
type StepResult struct {
	Name    string
	RunID   string
	Run     engine.RunResult
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// BuildConfig resolves a step into a full configuration.
func (s ScenarioStep) BuildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.FindPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, s.Preset)
		}
	}
	if s.Config != "" {
		if err := cfg.Overlay(s.Config); err != nil {
			return nil, err
		}
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if s.Capacity > 0 {
		cfg.Capacity = s.Capacity
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]StepResult, error) {
	logger := opts.logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.BuildConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.SaveAs
		if name == "" {
			name = cfg.Name
		}
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", name, "model", cfg.Model)

		var target *vec.Vec
		if step.Target != nil {
			t := step.Target.Vec()
			target = &t
		}
		frames := step.Frames
		if frames <= 0 {
			frames = DefaultFrames
		}

		rec, run, err := Execute(ctx, cfg, frames, target, logger)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Name: name, Run: run, Metrics: rec.Final()}
		if opts.Store != nil {
			cfg.Name = name
			meta := storage.NewMetadata(cfg)
			meta.Frames = run.Frames
			meta.Duration = run.Time
			meta.Particles = run.Particles
			meta.Elapsed = run.Elapsed
			if res.RunID, err = opts.Store.Save(meta, cfg, rec); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// DefaultFrames is one minute of simulated time at 60 frames per second.
const DefaultFrames = 3600

// SpeedLimit is the speed at which a particle crosses a whole grid cell in
// one step, the point beyond which neighbor search misses pairs.
func SpeedLimit(cfg *config.Config) float64 {
	return cfg.Domain.CellSize / cfg.Dt
}

// Execute runs one configuration headlessly and records the standard
// metrics after every frame.
func Execute(ctx context.Context, cfg *config.Config, frames int, target *vec.Vec, logger *log.Logger) (*metrics.Recorder, engine.RunResult, error) {
	sim, err := engine.New(cfg.Capacity, *cfg, engine.WithLogger(logger))
	if err != nil {
		return nil, engine.RunResult{}, err
	}

	rec := metrics.NewRecorder(append(metrics.Standard(SpeedLimit(cfg)), metrics.NewEnergyDrift())...)
	observer := engine.ObserverFunc(func(s *engine.Simulation) {
		rec.Record(metrics.Frame{Time: s.Time(), Particles: s.Particles(), Densities: s.Densities()})
	})

	var targetFn engine.TargetFunc
	if target != nil {
		targetFn = func(int, float64) *vec.Vec { return target }
	}
	run, err := sim.Run(ctx, frames, targetFn, observer)
	return rec, run, err
}

// ParameterSweep runs one preset across evenly spaced values of a single
// named parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
}

type SweepResult struct {
	ParamValue    float64
	Particles     int
	KineticEnergy float64
	MaxSpeed      float64
	MeanDensity   float64
	Stability     float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, opts Options) ([]SweepResult, error) {
	logger := opts.logger()
	base := config.FindPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, sweep.Preset)
	}
	if _, err := base.Param(sweep.ParamName); err != nil {
		return nil, err
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", config.ErrInvalidConfig)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, sweep.NumSteps)
	err := forEach(ctx, sweep.NumSteps, opts.Workers, func(ctx context.Context, i int) error {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return err
		}

		rec, run, err := Execute(ctx, cfg, sweep.Frames, nil, logger)
		if err != nil {
			return fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		final := rec.Final()
		results[i] = SweepResult{
			ParamValue:    paramVal,
			Particles:     run.Particles,
			KineticEnergy: final["kinetic_energy"],
			MaxSpeed:      final["max_speed"],
			MeanDensity:   final["mean_density"],
			Stability:     final["stability"],
		}

		logger.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloConfig perturbs the spawn velocity and seed of a preset across
// independent trials.
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	Frames       int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID   int
	Seed      int64
	Velocity  vec.Vec
	Particles int
	Stable    bool
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, opts Options) ([]MonteCarloResult, error) {
	logger := opts.logger()
	base := config.FindPreset(mc.Preset)
	if base == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, mc.Preset)
	}
	if mc.NumTrials < 1 {
		return nil, fmt.Errorf("%w: monte carlo needs at least one trial", config.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// draw every trial up front so results do not depend on scheduling
	cfgs := make([]*config.Config, mc.NumTrials)
	for trial := range cfgs {
		cfg := base.Clone()
		cfg.Seed = rng.Int63()
		cfg.Spawn.Velocity.X += (rng.Float64() - 0.5) * 2 * mc.Perturbation
		cfg.Spawn.Velocity.Y += (rng.Float64() - 0.5) * 2 * mc.Perturbation
		if cfg.Dim == 3 {
			cfg.Spawn.Velocity.Z += (rng.Float64() - 0.5) * 2 * mc.Perturbation
		}
		cfgs[trial] = cfg
	}

	results := make([]MonteCarloResult, mc.NumTrials)
	var done atomic.Int64
	err := forEach(ctx, mc.NumTrials, opts.Workers, func(ctx context.Context, trial int) error {
		cfg := cfgs[trial]
		rec, run, err := Execute(ctx, cfg, mc.Frames, nil, logger)
		if err != nil {
			return err
		}

		results[trial] = MonteCarloResult{
			TrialID:   trial,
			Seed:      cfg.Seed,
			Velocity:  cfg.Spawn.Velocity.Vec(),
			Particles: run.Particles,
			Stable:    rec.Final()["stability"] == 1,
		}

		if n := done.Add(1); n%10 == 0 {
			logger.Info("monte carlo", "done", n, "of", mc.NumTrials)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
