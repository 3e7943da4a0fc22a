package gpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSKIKernelMatchesBaseOnGridNodes(t *testing.T) {
	grid, err := NewInducingGrid(5, 5)
	require.NoError(t, err)

	base := NewRBFKernel(0.4, 1.2)
	ski := NewSKIKernel(base, grid)

	// On grid nodes the interpolation is exact, so the SKI covariance must
	// agree with the base kernel up to the diagonal jitter.
	points := grid.Points()

	for _, i := range []int{0, 7, 12, 24} {
		for _, j := range []int{3, 12, 20} {
			want := base.Cov(points[i], points[j])
			if i == j {
				want += kuuJitter
			}

			assert.InDelta(t, want, ski.Cov(points[i], points[j]), 1e-10,
				"nodes %d, %d", i, j)
		}
	}
}

func TestSKIKernelApproximatesBaseOffGrid(t *testing.T) {
	grid, err := NewInducingGrid(20, 20)
	require.NoError(t, err)

	base := NewRBFKernel(0.5, 1.0)
	ski := NewSKIKernel(base, grid)

	// Off-grid the interpolation is approximate; with a fine grid and a
	// smooth kernel the error stays small.
	a := []float64{0.33, 0.71}
	b := []float64{0.52, 0.18}

	assert.InDelta(t, base.Cov(a, b), ski.Cov(a, b), 1e-2)
}

func TestSKIKernelWeightsRowsSumToOne(t *testing.T) {
	grid, err := NewInducingGrid(4, 4)
	require.NoError(t, err)

	ski := NewSKIKernel(NewRBFKernel(0.3, 1.0), grid)

	x, err := UnitGrid(6)
	require.NoError(t, err)

	w := ski.Weights(x)

	rows, cols := w.Dims()
	assert.Equal(t, len(x), rows)
	assert.Equal(t, grid.Len(), cols)

	for r := 0; r < rows; r++ {
		total := 0.0
		for c := 0; c < cols; c++ {
			total += w.At(r, c)
		}

		assert.InDelta(t, 1.0, total, 1e-12, "row %d", r)
	}
}

func TestSKIKernelParamsInvalidateCache(t *testing.T) {
	grid, err := NewInducingGrid(3, 3)
	require.NoError(t, err)

	base := NewRBFKernel(0.3, 1.0)
	ski := NewSKIKernel(base, grid)

	node := grid.Points()[4]

	before := ski.Cov(node, node)

	// Doubling the output scale must double the variance at a node.
	ski.SetParams([]float64{0.3, 2.0})

	after := ski.Cov(node, node)

	assert.InDelta(t, 2*(before-kuuJitter)+kuuJitter, after, 1e-10)
	assert.Equal(t, []float64{0.3, 2.0}, ski.Params())
}
