package engine

import (
	"context"
	"time"

	"github.com/san-kum/partsim/internal/vec"
)

// Observer is notified after every completed frame.
type Observer interface {
	OnFrame(s *Simulation)
}

type ObserverFunc func(s *Simulation)

func (f ObserverFunc) OnFrame(s *Simulation) { f(s) }

// TargetFunc supplies the attractor target for a frame; nil means none.
type TargetFunc func(frame int, t float64) *vec.Vec

type RunResult struct {
	Frames    int
	Steps     int
	Time      float64
	Particles int
	Elapsed   time.Duration
}

// Run advances the simulation frame by frame until frames have completed or
// ctx is done. A step is never interrupted; cancellation is observed between
// frames.
func (s *Simulation) Run(ctx context.Context, frames int, target TargetFunc, observers ...Observer) (RunResult, error) {
	start := time.Now()
	res := RunResult{}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			res.Elapsed = time.Since(start)
			res.Steps, res.Time, res.Particles = s.steps, s.time, len(s.particles)
			return res, ctx.Err()
		default:
		}

		var tgt *vec.Vec
		if target != nil {
			tgt = target(i, s.time)
		}
		if err := s.Frame(tgt); err != nil {
			res.Elapsed = time.Since(start)
			res.Steps, res.Time, res.Particles = s.steps, s.time, len(s.particles)
			return res, err
		}
		res.Frames++
		for _, o := range observers {
			o.OnFrame(s)
		}
	}

	res.Elapsed = time.Since(start)
	res.Steps, res.Time, res.Particles = s.steps, s.time, len(s.particles)
	s.logger.Debug("run finished", "frames", res.Frames, "particles", res.Particles, "elapsed", res.Elapsed)
	return res, nil
}
