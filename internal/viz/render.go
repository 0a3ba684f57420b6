package viz

import (
	"math"
	"sort"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// Renderer draws particles of a box-shaped domain onto a canvas. Planar
// domains use a uniform scale that fits the whole domain; 3D domains go
// through the camera.
type Renderer struct {
	Canvas *Canvas
	Camera *Camera
	// SpeedScale is the speed mapped to the fast end of the ramp. Zero means
	// the fastest particle of each frame.
	SpeedScale float64

	extent vec.Vec
	dim    int
	box    *Wireframe
}

func NewRenderer(c *Canvas, extent vec.Vec, dim int) *Renderer {
	r := &Renderer{
		Canvas: c,
		Camera: NewCamera(),
		extent: extent,
		dim:    dim,
	}
	if dim == 3 {
		r.box = BoxWireframe(r.normalise(extent))
	}
	return r
}

// scale is sub-pixels per domain unit in 2D.
func (r *Renderer) scale() float64 {
	sx := float64(r.Canvas.SubWidth()) / math.Max(r.extent.X, 1)
	sy := float64(r.Canvas.SubHeight()) / math.Max(r.extent.Y, 1)
	return math.Min(sx, sy)
}

// normalise maps a domain point into the camera's unit-sized space.
func (r *Renderer) normalise(p vec.Vec) vec.Vec {
	span := math.Max(r.extent.X, math.Max(r.extent.Y, r.extent.Z))
	if span == 0 {
		span = 1
	}
	return p.Scale(1 / span)
}

// centre returns p relative to the middle of the domain, with Y flipped so
// that screen-down maps to world-down for the camera.
func (r *Renderer) centre(p vec.Vec) vec.Vec {
	c := p.Sub(r.extent.Scale(0.5))
	c.Y = -c.Y
	return r.normalise(c)
}

// ToScreen maps a domain position onto canvas sub-pixels.
func (r *Renderer) ToScreen(p vec.Vec) (x, y int, ok bool) {
	if r.dim == 3 {
		pr := r.Camera.Project(r.centre(p), r.Canvas.SubWidth(), r.Canvas.SubHeight())
		return pr.X, pr.Y, pr.Visible
	}
	s := r.scale()
	x, y = int(p.X*s), int(p.Y*s)
	return x, y, x >= 0 && y >= 0 && x < r.Canvas.SubWidth() && y < r.Canvas.SubHeight()
}

// ToDomain is the inverse of ToScreen for planar domains. It returns the
// domain point under sub-pixel (x, y).
func (r *Renderer) ToDomain(x, y int) vec.Vec {
	s := r.scale()
	return vec.New2((float64(x)+0.5)/s, (float64(y)+0.5)/s)
}

// CellToDomain maps a terminal cell (as reported by mouse events) to the
// domain point at the cell's centre.
func (r *Renderer) CellToDomain(col, row int) vec.Vec {
	return r.ToDomain(col*2+1, row*4+2)
}

// Draw clears the canvas and paints every particle coloured by speed. The
// camera path draws far particles first.
func (r *Renderer) Draw(ps []particle.Particle) {
	r.Canvas.Clear()
	ramp := ThemeRamp(CurrentTheme)
	top := r.SpeedScale
	if top <= 0 {
		for i := range ps {
			top = math.Max(top, ps[i].Velocity.Len())
		}
	}
	colour := func(p *particle.Particle) float64 {
		if top == 0 {
			return 0
		}
		return p.Velocity.Len() / top
	}

	if r.dim != 3 {
		s := r.scale()
		r.outline(s)
		for i := range ps {
			p := &ps[i]
			r.Canvas.FillDisk(int(p.Position.X*s), int(p.Position.Y*s), int(p.Radius*s), ramp.Hex(colour(p)))
		}
		return
	}

	Render3D(r.Canvas, r.box, r.Camera)
	sw, sh := r.Canvas.SubWidth(), r.Canvas.SubHeight()
	span := math.Max(r.extent.X, math.Max(r.extent.Y, r.extent.Z))
	order := make([]int, 0, len(ps))
	proj := make([]Projection, len(ps))
	for i := range ps {
		proj[i] = r.Camera.Project(r.centre(ps[i].Position), sw, sh)
		if proj[i].Visible {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool { return proj[order[a]].Depth < proj[order[b]].Depth })
	for _, i := range order {
		rad := int(ps[i].Radius / span * proj[i].Scale)
		r.Canvas.FillDisk(proj[i].X, proj[i].Y, rad, ramp.Hex(colour(&ps[i])))
	}
}

// outline draws the floor and walls of a planar domain when the domain does
// not fill the canvas.
func (r *Renderer) outline(s float64) {
	w := int(r.extent.X * s)
	h := int(r.extent.Y * s)
	if w < r.Canvas.SubWidth()-1 {
		r.Canvas.DrawLine(w, 0, w, h)
	}
	if h < r.Canvas.SubHeight()-1 {
		r.Canvas.DrawLine(0, h, w, h)
	}
}
