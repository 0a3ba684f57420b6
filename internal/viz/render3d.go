package viz

import (
	"math"
	"sort"

	"github.com/san-kum/partsim/internal/vec"
)

// Camera projects world points onto the canvas. The scene is expected to be
// normalised around the origin with a half-extent of roughly one unit.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 3, Near: 0.1, RotX: -0.35, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates p about X, then Y, then Z.
func (c *Camera) RotatePoint(p vec.Vec) vec.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Projection is a point mapped to sub-pixel coordinates. Scale is the number
// of sub-pixels per world unit at the point's depth.
type Projection struct {
	X, Y    int
	Depth   float64
	Scale   float64
	Visible bool
}

// Project maps p onto a sw x sh sub-pixel surface with a simple perspective
// divide. Points behind the near plane are not visible.
func (c *Camera) Project(p vec.Vec, sw, sh int) Projection {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return Projection{}
	}
	persp := c.Distance / (c.Distance - rot.Z) * float64(min(sw, sh)) / 2.5
	x := int(rot.X*persp) + sw/2
	y := int(-rot.Y*persp) + sh/2
	return Projection{
		X:       x,
		Y:       y,
		Depth:   rot.Z,
		Scale:   persp * c.Zoom,
		Visible: x >= 0 && x < sw && y >= 0 && y < sh,
	}
}

type Edge struct {
	Start, End vec.Vec
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe            { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e vec.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	type projected struct {
		a, b  Projection
		depth float64
	}
	sw, sh := c.SubWidth(), c.SubHeight()
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		a := cam.Project(e.Start, sw, sh)
		b := cam.Project(e.End, sw, sh)
		if a.Visible || b.Visible {
			proj = append(proj, projected{a, b, (a.Depth + b.Depth) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.a.X, e.a.Y, e.b.X, e.b.Y)
	}
}

// BoxWireframe outlines an axis-aligned box with the given half extents,
// centred on the origin.
func BoxWireframe(half vec.Vec) *Wireframe {
	w := NewWireframe()
	hx, hy, hz := half.X, half.Y, half.Z
	v := []vec.Vec{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}
