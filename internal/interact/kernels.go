package interact

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/vec"
)

var ErrInvalidKernel = errors.New("interact: invalid kernel parameters")

// Kernels holds the smoothing kernels for one support radius H, normalised
// for a 2D or 3D domain. Every kernel is exactly zero for |r| > H.
type Kernels struct {
	H   float64
	Dim int

	h2        float64
	poly6     float64
	spiky     float64
	viscosity float64
}

func NewKernels(h float64, dim int) (Kernels, error) {
	if !(h > 0) || math.IsInf(h, 0) {
		return Kernels{}, fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidKernel, h)
	}
	k := Kernels{H: h, Dim: dim, h2: h * h}
	switch dim {
	case 2:
		k.poly6 = 4 / (math.Pi * math.Pow(h, 8))
		k.spiky = 10 / (math.Pi * math.Pow(h, 5))
		k.viscosity = 40 / (math.Pi * math.Pow(h, 5))
	case 3:
		k.poly6 = 315 / (64 * math.Pi * math.Pow(h, 9))
		k.spiky = 15 / (math.Pi * math.Pow(h, 6))
		k.viscosity = 45 / (math.Pi * math.Pow(h, 6))
	default:
		return Kernels{}, fmt.Errorf("%w: dimension must be 2 or 3, got %d", ErrInvalidKernel, dim)
	}
	return k, nil
}

// Poly6 is the density kernel: c·(H² - r²)³.
func (k Kernels) Poly6(r vec.Vec) float64 {
	r2 := r.LenSq()
	if r2 > k.h2 {
		return 0
	}
	f := k.h2 - r2
	return k.poly6 * f * f * f
}

// Poly6Grad is ∇W_poly6 = -6c·(H² - r²)²·r.
func (k Kernels) Poly6Grad(r vec.Vec) vec.Vec {
	r2 := r.LenSq()
	if r2 > k.h2 {
		return vec.Vec{}
	}
	f := k.h2 - r2
	return r.Scale(-6 * k.poly6 * f * f)
}

// Poly6Laplacian is ∇²W_poly6 = -6c·(H² - r²)·(d·H² - (d+4)·r²).
func (k Kernels) Poly6Laplacian(r vec.Vec) float64 {
	r2 := r.LenSq()
	if r2 > k.h2 {
		return 0
	}
	d := float64(k.Dim)
	f := k.h2 - r2
	return -6 * k.poly6 * f * (d*k.h2 - (d+4)*r2)
}

// Spiky is the pressure kernel: c·(H - r)³.
func (k Kernels) Spiky(r vec.Vec) float64 {
	dist := r.Len()
	if dist > k.H {
		return 0
	}
	f := k.H - dist
	return k.spiky * f * f * f
}

// SpikyGrad is ∇W_spiky = -3c·(H - r)²·r̂. The direction is undefined at
// r = 0, where the gradient is zero.
func (k Kernels) SpikyGrad(r vec.Vec) vec.Vec {
	dist := r.Len()
	if dist > k.H || dist*dist < minDistSq {
		return vec.Vec{}
	}
	f := k.H - dist
	return r.Scale(-3 * k.spiky * f * f / dist)
}

// ViscosityLaplacian is ∇²W_viscosity = c·(H - r).
func (k Kernels) ViscosityLaplacian(r vec.Vec) float64 {
	dist := r.Len()
	if dist > k.H {
		return 0
	}
	return k.viscosity * (k.H - dist)
}
