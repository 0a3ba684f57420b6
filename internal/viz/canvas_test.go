package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasPixels(t *testing.T) {
	c := NewCanvas(4, 2)
	assert.Equal(t, 8, c.SubWidth())
	assert.Equal(t, 8, c.SubHeight())

	c.Set(3, 5)
	assert.True(t, c.IsSet(3, 5))
	assert.False(t, c.IsSet(2, 5))
	assert.NotEqual(t, rune(brailleBase), c.Grid[1][1])

	c.Unset(3, 5)
	assert.False(t, c.IsSet(3, 5))
	assert.Equal(t, rune(brailleBase), c.Grid[1][1])

	// out of range writes are ignored
	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	assert.Equal(t, NewCanvas(4, 2).Plain(), c.Plain())
}

func TestCanvasPaintAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Paint(0, 0, lipgloss.Color("#ff0000"))
	assert.Equal(t, lipgloss.Color("#ff0000"), c.Colors[0][0])
	assert.Equal(t, lipgloss.Color(""), c.Colors[0][1])

	c.Clear()
	assert.False(t, c.IsSet(0, 0))
	assert.Equal(t, lipgloss.Color(""), c.Colors[0][0])
}

func TestFillDisk(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillDisk(20, 20, 0, "")
	assert.True(t, c.IsSet(20, 20))
	assert.False(t, c.IsSet(21, 20))

	c.Clear()
	c.FillDisk(20, 20, 5, lipgloss.Color("#00ff00"))
	for _, p := range [][2]int{{20, 20}, {25, 20}, {15, 20}, {20, 25}, {20, 15}, {23, 23}} {
		assert.True(t, c.IsSet(p[0], p[1]), "inside %v", p)
	}
	for _, p := range [][2]int{{26, 20}, {25, 25}, {15, 15}} {
		assert.False(t, c.IsSet(p[0], p[1]), "outside %v", p)
	}
}

func TestFillDiskClipsAtEdges(t *testing.T) {
	c := NewCanvas(5, 5)
	assert.NotPanics(t, func() {
		c.FillDisk(0, 0, 6, "")
		c.FillDisk(c.SubWidth(), c.SubHeight(), 6, "")
		c.FillDisk(-50, -50, 3, "")
	})
	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(c.SubWidth()-1, c.SubHeight()-1))
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		assert.True(t, c.IsSet(x, 0))
	}
	c.DrawLine(0, 0, 5, 5)
	assert.True(t, c.IsSet(3, 3))
}

func TestPlainRowCount(t *testing.T) {
	c := NewCanvas(7, 3)
	lines := strings.Split(strings.TrimRight(c.Plain(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 7, len([]rune(lines[0])))
}

func TestRamp(t *testing.T) {
	r := NewRamp("#000000", "#ffffff")
	assert.Equal(t, "#000000", r.At(0).Hex())
	assert.Equal(t, "#ffffff", r.At(1).Hex())
	assert.Equal(t, r.At(1), r.At(7))
	assert.Equal(t, r.At(0), r.At(-1))
	assert.Equal(t, r.At(0), r.At(math.NaN()))

	l0, _, _ := r.At(0.25).Lab()
	l1, _, _ := r.At(0.75).Lab()
	assert.Less(t, l0, l1, "lightness grows along a black to white ramp")
}

func TestThemes(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	assert.Equal(t, "ocean", GetTheme("nope").Name)
	SetTheme("retro")
	assert.Equal(t, "retro", CurrentTheme.Name)

	seen := map[string]bool{}
	for range Themes {
		NextTheme()
		seen[CurrentTheme.Name] = true
	}
	assert.Len(t, seen, len(Themes))
}

func TestSparklineAndBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("─", 5), SparklineChart(nil, 5))
	assert.NotEmpty(t, SparklineChart([]float64{1, 2, 3}, 10))
	assert.Contains(t, ProgressBar(2, 4), "████")
	assert.Contains(t, ProgressBar(-1, 4), "░░░░")
	assert.Empty(t, GradientText("", "#000000", "#ffffff"))
}
