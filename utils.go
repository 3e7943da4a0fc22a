package gpr

import (
	"math"
)

//////
// Helper functions.
//////

// normalCDF computes the cumulative distribution function of the standard
// normal distribution.
//
// Returns:
// - Probability that a standard normal random variable is less than x.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// normalPDF computes the probability density function of the standard
// normal distribution at x.
func normalPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}

// LogDensity returns the log density of an observation y under a Gaussian
// with the given mean and variance. This is the pointwise building block of
// the Gaussian likelihood.
func LogDensity(y, mean, variance float64) float64 {
	sigma := math.Sqrt(variance)

	z := (y - mean) / sigma

	return math.Log(normalPDF(z)) - math.Log(sigma)
}

// AbsError computes the elementwise absolute difference between a predicted
// and an actual surface.
//
// Parameters:
// - pred: Predicted values
// - actual: Ground-truth values (must have the same length)
//
// Returns:
// - []float64: |pred − actual| per element, always ≥ 0, exactly 0 where the
//   inputs agree
// - error: ErrLengthMismatch if the lengths differ
//
// Important notes:
// - Creates a new slice; doesn't modify the inputs
// - Preserves order of elements.
func AbsError(pred, actual []float64) ([]float64, error) {
	if len(pred) != len(actual) {
		return nil, ErrLengthMismatch
	}

	out := make([]float64, len(pred))
	for i := range pred {
		out[i] = math.Abs(pred[i] - actual[i])
	}

	return out, nil
}
