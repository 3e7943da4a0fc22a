package gpr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-12)

	// Symmetry: P(Z < -x) == 1 - P(Z < x).
	for _, x := range []float64{0.5, 1.0, 2.33} {
		assert.InDelta(t, 1-normalCDF(x), normalCDF(-x), 1e-12)
	}

	assert.InDelta(t, 0.8413, normalCDF(1), 1e-4)
}

func TestNormalPDF(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), normalPDF(0), 1e-12)
	assert.Equal(t, normalPDF(1.3), normalPDF(-1.3))
}

func TestLogDensity(t *testing.T) {
	// Standard normal at the mean.
	want := -0.5 * math.Log(2*math.Pi)
	assert.InDelta(t, want, LogDensity(0, 0, 1), 1e-12)

	// Known closed form for arbitrary mean and variance.
	y, mean, variance := 1.2, 0.5, 0.25
	z := (y - mean) / math.Sqrt(variance)
	want = -0.5*z*z - 0.5*math.Log(2*math.Pi) - 0.5*math.Log(variance)

	assert.InDelta(t, want, LogDensity(y, mean, variance), 1e-12)
}

func TestAbsError(t *testing.T) {
	out, err := AbsError([]float64{1, -2, 3}, []float64{0.5, -1, 3})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 1, 0}, out)

	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestAbsErrorLengthMismatch(t *testing.T) {
	_, err := AbsError([]float64{1, 2}, []float64{1})

	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestAbsErrorZeroWhereEqual(t *testing.T) {
	v := []float64{0.1, -4.2, 0, 7}

	out, err := AbsError(v, v)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0, 0}, out)
}
