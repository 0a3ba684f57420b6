package metrics

import "math"

// Stability is the fraction of observed frames in which every particle
// stayed finite and under the speed limit. An empty run counts as stable.
type Stability struct {
	limitSq float64
	bad     int
	frames  int
}

func NewStability(speedLimit float64) *Stability {
	return &Stability{limitSq: speedLimit * speedLimit}
}

func (*Stability) Name() string { return "stability" }

func (s *Stability) Observe(f Frame) {
	s.frames++
	for i := range f.Particles {
		p := &f.Particles[i]
		v2 := p.Velocity.LenSq()
		if math.IsNaN(v2) || v2 > s.limitSq || !p.Position.IsFinite() {
			s.bad++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return float64(s.frames-s.bad) / float64(s.frames)
}

func (s *Stability) Reset() { s.bad, s.frames = 0, 0 }
