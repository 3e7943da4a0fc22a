package gpr

import (
	"golang.org/x/exp/constraints"
)

// TrainingUpdate represents the state of the fitting loop after one step.
// Updates are delivered through FitConfig.ProgressChan, one per iteration.
type TrainingUpdate struct {
	// Iteration is the current iteration number (1-based)
	Iteration int

	// TotalIterations is the total number of iterations to run
	TotalIterations int

	// Loss is the negative marginal log likelihood at this step
	Loss float64

	// BestLoss is the lowest loss observed so far
	BestLoss float64

	// Params holds the current hyperparameter values, in the order
	// mean, kernel, likelihood
	Params []float64
}

// ParameterBound defines the valid range for a model hyperparameter.
// Every trainable parameter (mean constant, kernel lengthscale and output
// scale, likelihood noise) declares one; the fitting loop clamps each
// parameter back into its bound after every optimizer step.
//
// Type Parameter:
//   - T: The floating-point type for this bound
//
// Usage:
//
//	// Lengthscale allowed between 0.01 and 10.
//	lengthscaleBound := ParameterBound[float64]{
//	    Min: 0.01,
//	    Max: 10.0,
//	}
//
// Validation:
// - Min must be less than or equal to Max
// - The range is inclusive of both Min and Max values
//
// A bound whose Min is strictly positive marks the parameter as a scale
// parameter: the fitting loop optimizes it in log space so that gradient
// steps can never drive it negative.
type ParameterBound[T constraints.Float] struct {
	// Min defines the minimum allowed value (inclusive) for this parameter.
	Min T

	// Max defines the maximum allowed value (inclusive) for this parameter.
	Max T
}

// Clamp returns v restricted to the bound's range.
func (b ParameterBound[T]) Clamp(v T) T {
	if v < b.Min {
		return b.Min
	}

	if v > b.Max {
		return b.Max
	}

	return v
}

// Mean is the interface for prior mean functions. A mean function maps an
// input point to the prior expectation of the latent function there, and
// exposes its trainable parameters to the fitting loop.
type Mean interface {
	// Value returns the prior mean at x.
	Value(x []float64) float64

	// Params returns the current trainable parameter values.
	Params() []float64

	// SetParams overwrites the trainable parameters. The slice must have
	// the same length as Params returns.
	SetParams(p []float64)

	// Bounds returns one ParameterBound per trainable parameter, in the
	// same order as Params.
	Bounds() []ParameterBound[float64]
}

// Kernel is the interface for covariance functions. A kernel measures the
// similarity between two input points; the resulting gram matrix is the
// covariance of the Gaussian Process prior.
//
// Implementations must be symmetric (Cov(a, b) == Cov(b, a)) and must panic
// if a and b have different lengths, since that is always a programmer
// error rather than a runtime condition.
type Kernel interface {
	// Cov returns the covariance between points a and b.
	Cov(a, b []float64) float64

	// Params returns the current trainable hyperparameter values.
	Params() []float64

	// SetParams overwrites the trainable hyperparameters. The slice must
	// have the same length as Params returns.
	SetParams(p []float64)

	// Bounds returns one ParameterBound per trainable hyperparameter, in
	// the same order as Params.
	Bounds() []ParameterBound[float64]
}

// FitConfig holds all configuration parameters for the fitting loop.
//
// Fields explanation:
// - Iterations: Number of optimizer steps to run
// - LearnRate: Adam learning rate
// - Beta1, Beta2, Epsilon: Adam moment decay rates and stabilizer
// - GradStep: Relative step used for central-difference gradients
// - ProgressChan: Optional channel for per-iteration TrainingUpdate values
//
// Usage example:
//
//	cfg := DefaultFitConfig()
//	cfg.Iterations = 30
//	cfg.LearnRate = 0.1
//
//	if err := model.Fit(cfg); err != nil {
//	    // handle error
//	}
//
// Note:
//   - The loop is a bounded counted loop: it always runs exactly Iterations
//     steps, with no convergence check and no early exit.
type FitConfig struct {
	// Iterations determines how many optimizer steps to perform. Each step
	// evaluates the negative marginal log likelihood and its gradient once.
	// Recommended range: 20-200
	Iterations int

	// LearnRate is the Adam learning rate.
	// Recommended range: 0.01-0.3
	LearnRate float64

	// Beta1 is the Adam decay rate for the first moment estimate.
	Beta1 float64

	// Beta2 is the Adam decay rate for the second moment estimate.
	Beta2 float64

	// Epsilon is the Adam denominator stabilizer.
	Epsilon float64

	// GradStep is the relative perturbation used when computing
	// central-difference gradients of the objective.
	GradStep float64

	// ProgressChan is used to send progress updates during fitting.
	// If nil, no updates will be sent. Sends are non-blocking: if the
	// channel is full the update is dropped.
	ProgressChan chan<- TrainingUpdate
}

// DefaultFitConfig returns a default configuration.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Iterations:   30,
		LearnRate:    0.1,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		GradStep:     1e-4,
		ProgressChan: nil, // Default to no progress updates.
	}
}
