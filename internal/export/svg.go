// Package export renders simulation output as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
	"github.com/san-kum/partsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// FrameToSVG draws one frame of particles as circles, scaled so the domain's
// X/Y extent is width pixels wide. Colour follows speed along the current
// theme ramp; 3D frames are drawn as seen along Z.
func FrameToSVG(ps []particle.Particle, extent vec.Vec, width int) string {
	if extent.X <= 0 || extent.Y <= 0 || width <= 0 {
		return ""
	}
	scale := float64(width) / extent.X
	height := extent.Y * scale

	top := 0.0
	for i := range ps {
		top = math.Max(top, ps[i].Velocity.Len())
	}
	ramp := viz.ThemeRamp(viz.CurrentTheme)

	var sb strings.Builder
	header(&sb, float64(width), height)
	sb.WriteString("<g>\n")
	for i := range ps {
		p := &ps[i]
		t := 0.0
		if top > 0 {
			t = p.Velocity.Len() / top
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, p.Position.X*scale, p.Position.Y*scale, math.Max(p.Radius*scale, 0.5), ramp.At(t).Hex())
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in the
// colour of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if col := canvas.Colors[y/4][x/2]; col != "" {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, string(col))
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a recorded metric against time as a polyline with 10%
// padding on each side. Non-finite samples are skipped.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	type point struct{ x, y float64 }
	var points []point
	for i := range values {
		if i >= len(times) || math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		points = append(points, point{times[i], values[i]})
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x := (p.x - minX) / rangeX * float64(width)
		y := float64(height) - (p.y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
