package gpr

import "errors"

//////
// Sentinel errors.
//////

var (
	// ErrGridSize indicates a grid resolution below the minimum of 2 per
	// dimension.
	ErrGridSize = errors.New("gpr: grid resolution must be at least 2")

	// ErrNoTrainingData indicates that Fit or Eval was called before any
	// training data was supplied via SetTrainingData.
	ErrNoTrainingData = errors.New("gpr: model has no training data")

	// ErrNotFitted indicates that Predict was called before the model was
	// switched to evaluation mode with Eval.
	ErrNotFitted = errors.New("gpr: model is not in evaluation mode; call Eval first")

	// ErrLengthMismatch indicates two sequences that must have equal length
	// do not.
	ErrLengthMismatch = errors.New("gpr: sequences must have the same length")

	// ErrFactorization indicates a covariance matrix could not be Cholesky
	// factorized (not positive definite, typically from degenerate
	// hyperparameters).
	ErrFactorization = errors.New("gpr: covariance matrix is not positive definite")

	// ErrInvalidConfig indicates a FitConfig with a non-positive iteration
	// count, learning rate, or gradient step.
	ErrInvalidConfig = errors.New("gpr: invalid fit configuration")
)
