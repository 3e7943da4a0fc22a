package gpr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smoothSurface is an easy regression target used across the model tests.
func smoothSurface(p []float64) float64 {
	return math.Sin(2 * math.Pi * (p[0] + p[1]))
}

func testTrainingSet(t *testing.T, n int) ([][]float64, []float64) {
	t.Helper()

	x, err := UnitGrid(n)
	require.NoError(t, err)

	y := make([]float64, len(x))
	for i, p := range x {
		y[i] = smoothSurface(p)
	}

	return x, y
}

func TestRegressionPredictRequiresEval(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.3, 1.0),
		NewGaussianLikelihood(0.1),
	)

	x, y := testTrainingSet(t, 3)
	require.NoError(t, model.SetTrainingData(x, y))

	_, _, err := model.Predict([]float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, model.Eval())

	_, _, err = model.Predict([]float64{0.5, 0.5})
	assert.NoError(t, err)

	// Train drops the factorization again.
	model.Train()

	_, _, err = model.Predict([]float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestRegressionSetTrainingDataValidation(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.3, 1.0),
		NewGaussianLikelihood(0.1),
	)

	err := model.SetTrainingData([][]float64{{0, 0}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = model.SetTrainingData(nil, nil)
	assert.ErrorIs(t, err, ErrNoTrainingData)

	err = model.Eval()
	assert.ErrorIs(t, err, ErrNoTrainingData)
}

func TestRegressionExactInterpolatesTrainingPoints(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.4, 1.0),
		NewGaussianLikelihood(1e-6),
	)

	x, y := testTrainingSet(t, 4)
	require.NoError(t, model.SetTrainingData(x, y))
	require.NoError(t, model.Eval())

	// With near-zero noise the exact posterior interpolates the data.
	for i := range x {
		mean, variance, err := model.Predict(x[i])
		require.NoError(t, err)

		assert.InDelta(t, y[i], mean, 1e-3, "point %d", i)
		assert.GreaterOrEqual(t, variance, 0.0)
		assert.Less(t, variance, 1e-2)
	}
}

func TestRegressionVarianceGrowsAwayFromData(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.1, 1.0),
		NewGaussianLikelihood(1e-4),
	)

	// Training data only in the lower-left corner.
	x := [][]float64{{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1}}
	y := []float64{0, 0.1, 0.1, 0.2}

	require.NoError(t, model.SetTrainingData(x, y))
	require.NoError(t, model.Eval())

	_, nearVar, err := model.Predict([]float64{0.05, 0.05})
	require.NoError(t, err)

	_, farVar, err := model.Predict([]float64{0.9, 0.9})
	require.NoError(t, err)

	assert.Greater(t, farVar, nearVar)
}

// TestSKIPosteriorMatchesDense checks the Woodbury algebra against the
// plain Cholesky path: both factorize the same interpolated gram matrix, so
// likelihood and predictions must agree to numerical precision.
func TestSKIPosteriorMatchesDense(t *testing.T) {
	grid, err := NewInducingGrid(4, 4)
	require.NoError(t, err)

	ski := NewSKIKernel(NewRBFKernel(0.4, 1.0), grid)

	meanFn := NewConstantMean(0.1)
	noise := 0.05

	x, y := testTrainingSet(t, 5)

	structured, err := newSKIPosterior(meanFn, ski, noise, x, y, true)
	require.NoError(t, err)

	dense, err := newDensePosterior(meanFn, ski, noise, x, y)
	require.NoError(t, err)

	assert.InDelta(t, dense.logMarginalLikelihood(), structured.logMarginalLikelihood(), 1e-8)

	testPoints := [][]float64{
		{0.13, 0.77},
		{0.5, 0.5},
		{0.91, 0.08},
	}

	for _, p := range testPoints {
		denseMean, denseVar, err := dense.predict(p)
		require.NoError(t, err)

		skiMean, skiVar, err := structured.predict(p)
		require.NoError(t, err)

		assert.InDelta(t, denseMean, skiMean, 1e-8, "mean at %v", p)
		assert.InDelta(t, denseVar, skiVar, 1e-8, "variance at %v", p)
	}
}

func TestSKIPosteriorWithoutPredictiveRejectsPredict(t *testing.T) {
	grid, err := NewInducingGrid(3, 3)
	require.NoError(t, err)

	ski := NewSKIKernel(NewRBFKernel(0.4, 1.0), grid)

	x, y := testTrainingSet(t, 3)

	p, err := newSKIPosterior(NewConstantMean(0), ski, 0.05, x, y, false)
	require.NoError(t, err)

	_, _, err = p.predict([]float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrNotFitted)

	// The likelihood is still available.
	assert.False(t, math.IsNaN(p.logMarginalLikelihood()))
}

func TestRegressionSKIPredictsSmoothSurface(t *testing.T) {
	grid, err := NewInducingGrid(15, 15)
	require.NoError(t, err)

	model := NewRegression(
		NewConstantMean(0),
		NewSKIKernel(NewRBFKernel(0.2, 1.0), grid),
		NewGaussianLikelihood(1e-4),
	)

	x, y := testTrainingSet(t, 10)
	require.NoError(t, model.SetTrainingData(x, y))
	require.NoError(t, model.Eval())

	xTest, err := UnitGrid(6)
	require.NoError(t, err)

	means, variances, err := model.PredictBatch(xTest)
	require.NoError(t, err)
	require.Len(t, means, len(xTest))
	require.Len(t, variances, len(xTest))

	for i, p := range xTest {
		assert.InDelta(t, smoothSurface(p), means[i], 0.2, "point %v", p)
		assert.GreaterOrEqual(t, variances[i], 0.0)
	}
}

func TestRegressionLogMarginalLikelihoodFinite(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.3, 1.0),
		NewGaussianLikelihood(0.1),
	)

	x, y := testTrainingSet(t, 4)
	require.NoError(t, model.SetTrainingData(x, y))

	mll, err := model.LogMarginalLikelihood()
	require.NoError(t, err)

	assert.False(t, math.IsNaN(mll))
	assert.False(t, math.IsInf(mll, 0))
}

func TestRegressionCalibration(t *testing.T) {
	model := NewRegression(
		NewConstantMean(0),
		NewRBFKernel(0.4, 1.0),
		NewGaussianLikelihood(0.01),
	)

	x, y := testTrainingSet(t, 4)
	require.NoError(t, model.SetTrainingData(x, y))
	require.NoError(t, model.Eval())

	p, err := model.Calibration(x[5], y[5])
	require.NoError(t, err)

	// PIT values live strictly inside (0, 1); an observation the model has
	// seen should sit near the middle.
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
	assert.InDelta(t, 0.5, p, 0.45)
}
