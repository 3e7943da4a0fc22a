package gpr

//////
// Grid construction.
//////

// UnitGrid builds a regularly spaced n×n grid of 2-D points covering the
// unit square [0,1]×[0,1].
//
// Parameters:
// - n: Grid resolution per dimension (must be at least 2)
//
// Returns:
// - [][]float64: n² points in row-major order; the point at index i·n+j is
//   (i/(n-1), j/(n-1))
// - error: ErrGridSize if n < 2
//
// Usage example:
//
//	points, err := gpr.UnitGrid(40)
//	if err != nil {
//	    // handle error
//	}
//	// points[0] == [0, 0], points[len(points)-1] == [1, 1]
//
// Important notes:
// - The mapping between index pairs (i, j) and grid positions is a bijection
// - All coordinates lie in [0,1]
// - Each point is an independent slice, safe for the caller to modify.
func UnitGrid(n int) ([][]float64, error) {
	if n < 2 {
		return nil, ErrGridSize
	}

	step := 1.0 / float64(n-1)

	points := make([][]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			points = append(points, []float64{float64(i) * step, float64(j) * step})
		}
	}

	return points, nil
}

// InducingGrid is a regularly spaced grid of inducing points over the unit
// hypercube [0,1]^d, with an independent resolution per dimension. It is the
// backbone of the structured kernel interpolation approximation: the base
// kernel is evaluated only between inducing points, and arbitrary inputs are
// mapped onto the grid with multilinear interpolation weights.
//
// The grid is immutable after construction and safe for concurrent use.
type InducingGrid struct {
	// sizes holds the number of points per dimension, each at least 2.
	sizes []int

	// strides holds row-major strides derived from sizes.
	strides []int

	// points caches all grid points in row-major order.
	points [][]float64
}

// NewInducingGrid creates a grid with the given resolution per dimension.
// Points along dimension k are spaced 1/(sizes[k]-1) apart, covering [0,1].
//
// Parameters:
// - sizes: One resolution per dimension, each at least 2
//
// Returns:
// - *InducingGrid: The constructed grid
// - error: ErrGridSize if no sizes are given or any size is below 2
//
// Usage example:
//
//	// A 30×30 grid of inducing points over the unit square.
//	grid, err := gpr.NewInducingGrid(30, 30)
func NewInducingGrid(sizes ...int) (*InducingGrid, error) {
	if len(sizes) == 0 {
		return nil, ErrGridSize
	}

	for _, s := range sizes {
		if s < 2 {
			return nil, ErrGridSize
		}
	}

	g := &InducingGrid{
		sizes:   append([]int(nil), sizes...),
		strides: make([]int, len(sizes)),
	}

	// Row-major strides: the last dimension varies fastest.
	stride := 1
	for k := len(sizes) - 1; k >= 0; k-- {
		g.strides[k] = stride
		stride *= sizes[k]
	}

	g.points = make([][]float64, stride)
	for idx := range g.points {
		p := make([]float64, len(sizes))

		rem := idx
		for k := 0; k < len(sizes); k++ {
			p[k] = float64(rem/g.strides[k]) / float64(sizes[k]-1)
			rem %= g.strides[k]
		}

		g.points[idx] = p
	}

	return g, nil
}

// Dims returns the number of grid dimensions.
func (g *InducingGrid) Dims() int {
	return len(g.sizes)
}

// Len returns the total number of inducing points.
func (g *InducingGrid) Len() int {
	return len(g.points)
}

// Points returns all inducing points in row-major order. The returned slice
// is shared; callers must not modify it.
func (g *InducingGrid) Points() [][]float64 {
	return g.points
}

// Interpolate computes multilinear interpolation weights for an arbitrary
// point against the grid. It returns the row-major indices of the 2^d
// surrounding cell corners and the matching weights.
//
// Parameters:
// - x: Input point (length must equal Dims; panics otherwise)
//
// Returns:
// - indices: Row-major inducing point indices of the enclosing cell corners
// - weights: Interpolation weights for those corners
//
// Important notes:
// - Weights are non-negative and always sum to 1
// - A point lying exactly on a grid node gets weight 1 on that node
// - Points outside [0,1]^d are clamped to the boundary cell.
func (g *InducingGrid) Interpolate(x []float64) (indices []int, weights []float64) {
	if len(x) != len(g.sizes) {
		panic("gpr: input point dimension does not match grid dimension")
	}

	d := len(g.sizes)

	// Per-dimension lower cell corner and fractional offset within the cell.
	lo := make([]int, d)
	frac := make([]float64, d)

	for k := 0; k < d; k++ {
		h := 1.0 / float64(g.sizes[k]-1)

		cell := int(x[k] / h)

		// Clamp to the boundary cell so out-of-range inputs extrapolate
		// from the nearest cell instead of indexing outside the grid.
		if cell < 0 {
			cell = 0
		}

		if cell > g.sizes[k]-2 {
			cell = g.sizes[k] - 2
		}

		lo[k] = cell

		f := x[k]/h - float64(cell)

		// Project out-of-range inputs onto the grid boundary so weights
		// stay non-negative.
		if f < 0 {
			f = 0
		}

		if f > 1 {
			f = 1
		}

		frac[k] = f
	}

	corners := 1 << d

	indices = make([]int, corners)
	weights = make([]float64, corners)

	for c := 0; c < corners; c++ {
		idx := 0
		w := 1.0

		for k := 0; k < d; k++ {
			if c&(1<<k) != 0 {
				idx += (lo[k] + 1) * g.strides[k]
				w *= frac[k]
			} else {
				idx += lo[k] * g.strides[k]
				w *= 1 - frac[k]
			}
		}

		indices[c] = idx
		weights[c] = w
	}

	return indices, weights
}
