// Package vec provides the small fixed-dimension vector used by every part of
// the particle engine.
//
// A 2D simulation uses [Vec] with Z left at zero; all operations stay valid
// because the extra component never becomes non-zero.
package vec

import "math"

// Vec is a 3-component float64 vector with value semantics.
type Vec struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec { return Vec{x, y, z} }

// New2 builds a planar vector.
func New2(x, y float64) Vec { return Vec{X: x, Y: y} }

func Zero() Vec { return Vec{} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s, v.Z * s} }

// Div divides by a scalar. A zero divisor yields the zero vector.
func (v Vec) Div(s float64) Vec {
	if s == 0 {
		return Vec{}
	}
	inv := 1 / s
	return Vec{v.X * inv, v.Y * inv, v.Z * inv}
}

// Mul is the componentwise (Hadamard) product.
func (v Vec) Mul(o Vec) Vec { return Vec{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Dot returns the componentwise product, not the scalar inner product.
// Use v.Dot(o).Sum() for the inner product.
func (v Vec) Dot(o Vec) Vec { return v.Mul(o) }

// Sum adds the components together.
func (v Vec) Sum() float64 { return v.X + v.Y + v.Z }

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalize returns the unit vector along v, or the zero vector when v has
// zero magnitude.
func (v Vec) Normalize() Vec {
	mag := v.Len()
	if mag == 0 {
		return Vec{}
	}
	return v.Scale(1 / mag)
}

func (v Vec) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Axis returns component i (0=X, 1=Y, 2=Z).
func (v Vec) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v *Vec) SetAxis(i int, val float64) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}

func (v *Vec) AddAssign(o Vec) {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
}

func (v *Vec) SubAssign(o Vec) {
	v.X -= o.X
	v.Y -= o.Y
	v.Z -= o.Z
}

func (v *Vec) ScaleAssign(s float64) {
	v.X *= s
	v.Y *= s
	v.Z *= s
}
