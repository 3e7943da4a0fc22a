package gpr

import (
	"gonum.org/v1/gonum/mat"
)

//////
// Structured kernel interpolation.
//////

// kuuJitter is added to the diagonal of the inducing gram matrix before
// factorization to keep it numerically positive definite.
const kuuJitter = 1e-6

// SKIKernel approximates a base kernel with structured kernel interpolation:
// the base kernel is evaluated only between the points of a regular inducing
// grid, and arbitrary inputs are mapped onto the grid with multilinear
// interpolation weights. The gram matrix of n inputs becomes
//
//	K(X, X) ≈ W · Kuu · Wᵀ
//
// where W is the n×m interpolation weight matrix (2^d non-zero entries per
// row) and Kuu is the m×m base kernel gram matrix over the inducing points.
// Because every solve against the approximated gram matrix reduces to
// m-sized factorizations, inference cost drops from O(n³) to O(n·m + m³).
//
// SKIKernel delegates its trainable hyperparameters to the base kernel: the
// grid itself is fixed at construction.
//
// Important notes:
// - Not safe for unsynchronized concurrent use while hyperparameters are
//   being updated; Regression serializes access with its own lock
// - Kuu is cached and recomputed lazily after SetParams.
type SKIKernel struct {
	base Kernel
	grid *InducingGrid

	// kuu caches the jittered inducing gram matrix for the current
	// hyperparameters. Nil means stale.
	kuu *mat.SymDense
}

// NewSKIKernel wraps base with a grid-interpolation approximation over grid.
func NewSKIKernel(base Kernel, grid *InducingGrid) *SKIKernel {
	return &SKIKernel{
		base: base,
		grid: grid,
	}
}

// Grid returns the inducing grid.
func (k *SKIKernel) Grid() *InducingGrid {
	return k.grid
}

// Base returns the wrapped kernel.
func (k *SKIKernel) Base() Kernel {
	return k.base
}

// Kuu returns the base kernel gram matrix over the inducing points, with
// jitter added to the diagonal. The matrix is cached until the
// hyperparameters change; callers must not modify it.
func (k *SKIKernel) Kuu() *mat.SymDense {
	if k.kuu != nil {
		return k.kuu
	}

	points := k.grid.Points()
	m := len(points)

	kuu := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			v := k.base.Cov(points[i], points[j])

			if i == j {
				v += kuuJitter
			}

			kuu.SetSym(i, j, v)
		}
	}

	k.kuu = kuu

	return k.kuu
}

// Weights builds the n×m interpolation weight matrix for a batch of inputs,
// one row per input point.
func (k *SKIKernel) Weights(x [][]float64) *mat.Dense {
	w := mat.NewDense(len(x), k.grid.Len(), nil)

	for r, p := range x {
		idx, wts := k.grid.Interpolate(p)

		for c := range idx {
			w.Set(r, idx[c], wts[c])
		}
	}

	return w
}

// Cov returns the interpolated covariance w(a)·Kuu·w(b)ᵀ between a and b.
// On grid nodes this agrees with the base kernel up to the diagonal jitter.
func (k *SKIKernel) Cov(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("input vectors must have the same length")
	}

	kuu := k.Kuu()

	ia, wa := k.grid.Interpolate(a)
	ib, wb := k.grid.Interpolate(b)

	var sum float64

	for i := range ia {
		for j := range ib {
			sum += wa[i] * wb[j] * kuu.At(ia[i], ib[j])
		}
	}

	return sum
}

// Params returns the base kernel's hyperparameters.
func (k *SKIKernel) Params() []float64 {
	return k.base.Params()
}

// SetParams forwards to the base kernel and invalidates the cached gram
// matrix.
func (k *SKIKernel) SetParams(p []float64) {
	k.base.SetParams(p)
	k.kuu = nil
}

// Bounds returns the base kernel's hyperparameter bounds.
func (k *SKIKernel) Bounds() []ParameterBound[float64] {
	return k.base.Bounds()
}
