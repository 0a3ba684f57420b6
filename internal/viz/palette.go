package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// rampSteps quantises the speed ramp so a frame uses a bounded number of
// distinct styles.
const rampSteps = 16

// Ramp maps a value in [0, 1] onto a perceptual blend between two colours.
type Ramp struct {
	steps [rampSteps]colorful.Color
}

func NewRamp(from, to lipgloss.Color) Ramp {
	a := parseColor(from)
	b := parseColor(to)
	var r Ramp
	for i := range r.steps {
		r.steps[i] = a.BlendLab(b, float64(i)/float64(rampSteps-1)).Clamped()
	}
	return r
}

// ThemeRamp is the particle speed ramp of a theme.
func ThemeRamp(t Theme) Ramp { return NewRamp(t.Slow, t.Fast) }

// At returns the blended colour for t, clamped into [0, 1]. NaN maps to the
// slow end.
func (r Ramp) At(t float64) colorful.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return r.steps[int(math.Round(t*float64(rampSteps-1)))]
}

// Hex is At as a lipgloss colour.
func (r Ramp) Hex(t float64) lipgloss.Color {
	return lipgloss.Color(r.At(t).Hex())
}

func parseColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return col
}
