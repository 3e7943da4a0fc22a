package gpr

import (
	"fmt"
	"math"
	"sync"
)

//////
// Const, vars, types.
//////

// Regression implements a thread-safe Gaussian Process regression model for
// multidimensional inputs. It is composed of a prior mean function, a
// covariance kernel (optionally a structured kernel interpolation wrapper),
// and a Gaussian observation likelihood.
//
// Fields:
// - mu: RWMutex for thread-safe access to all fields
// - meanFn: Prior mean of the latent function
// - kernel: Covariance function of the latent function
// - likelihood: Gaussian observation noise model
// - x, y: Observed input points and targets
// - evalMode: Whether the model is in evaluation mode
// - post: Cached posterior factorization, built by Eval
//
// Thread safety:
// - All fields are protected by the RWMutex
// - Safe for concurrent access from multiple goroutines
// - Uses RLock for read operations (Predict, PredictBatch, Calibration)
// - Uses Lock for write operations (SetTrainingData, Train, Eval, Fit)
//
// Mode lifecycle:
// - Train puts the model in training mode and drops the cached posterior
// - Fit runs the optimizer loop (training mode implied)
// - Eval factorizes the posterior for the current hyperparameters and
//   switches to evaluation mode; Predict requires evaluation mode.
type Regression struct {
	// mu protects access to all fields
	mu sync.RWMutex

	// meanFn is the prior mean function
	meanFn Mean

	// kernel is the covariance function
	kernel Kernel

	// likelihood models the observation noise
	likelihood *GaussianLikelihood

	// x stores the observed input points
	// Each element is a slice of float64 values
	// Length of inner slices must be consistent
	x [][]float64

	// y stores the observed targets at each point in x
	// Must have same length as x
	y []float64

	// evalMode reports whether the model is in evaluation mode
	evalMode bool

	// post is the cached posterior factorization; nil while training
	post posterior
}

//////
// Methods.
//////

// SetTrainingData replaces the model's observations.
//
// Parameters:
// - x: Input points (deep-copied to prevent external modification)
// - y: Observed targets, one per input point
//
// Returns:
// - error: ErrLengthMismatch if len(x) != len(y), ErrNoTrainingData if empty
//
// Important notes:
// - Switches the model back to training mode and drops any cached posterior
// - Creates deep copies of the inputs to prevent external modifications.
func (r *Regression) SetTrainingData(x [][]float64, y []float64) error {
	if len(x) != len(y) {
		return ErrLengthMismatch
	}

	if len(x) == 0 {
		return ErrNoTrainingData
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.x = make([][]float64, len(x))
	for i := range x {
		p := make([]float64, len(x[i]))
		copy(p, x[i])

		r.x[i] = p
	}

	r.y = make([]float64, len(y))
	copy(r.y, y)

	r.evalMode = false
	r.post = nil

	return nil
}

// Train switches the model to training mode, dropping the cached posterior.
// Hyperparameter updates only make sense in training mode; Eval rebuilds the
// posterior from the current hyperparameters afterwards.
func (r *Regression) Train() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evalMode = false
	r.post = nil
}

// Eval factorizes the posterior for the current hyperparameters and switches
// the model to evaluation mode. Predict and PredictBatch require evaluation
// mode.
//
// Returns:
// - error: ErrNoTrainingData if no observations were supplied,
//   ErrFactorization if the covariance matrix is not positive definite
func (r *Regression) Eval() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.x) == 0 {
		return ErrNoTrainingData
	}

	post, err := r.buildPosteriorLocked(true)
	if err != nil {
		return err
	}

	r.post = post
	r.evalMode = true

	return nil
}

// Predict estimates the posterior mean and variance of the latent function
// at a given point.
//
// Parameters:
// - x: Input point at which to make the prediction
//
// Returns:
// - mean: Posterior mean at the input point
// - variance: Posterior variance (uncertainty; higher = less certain)
// - err: ErrNotFitted unless Eval was called after the last mutation
//
// Usage example:
//
//	if err := model.Eval(); err != nil {
//	    // handle error
//	}
//
//	mean, variance, err := model.Predict([]float64{0.25, 0.75})
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("prediction: %v ± %v\n", mean, math.Sqrt(variance))
//
// Thread safety:
// - Protected by read mutex
// - Multiple predictions can proceed in parallel.
func (r *Regression) Predict(x []float64) (mean, variance float64, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.evalMode || r.post == nil {
		return 0, 0, ErrNotFitted
	}

	return r.post.predict(x)
}

// PredictBatch estimates the posterior mean and variance at every point of a
// batch, in order.
//
// Parameters:
// - x: Input points
//
// Returns:
// - means: Posterior means, one per input point
// - variances: Posterior variances, one per input point
// - err: ErrNotFitted unless Eval was called after the last mutation
func (r *Regression) PredictBatch(x [][]float64) (means, variances []float64, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.evalMode || r.post == nil {
		return nil, nil, ErrNotFitted
	}

	means = make([]float64, len(x))
	variances = make([]float64, len(x))

	for i := range x {
		means[i], variances[i], err = r.post.predict(x[i])
		if err != nil {
			return nil, nil, fmt.Errorf("predicting point %d: %w", i, err)
		}
	}

	return means, variances, nil
}

// LogMarginalLikelihood returns the marginal log likelihood of the training
// data under the current hyperparameters. It is the objective maximized by
// Fit: data fit balanced against model complexity.
//
// Returns:
// - float64: The marginal log likelihood
// - error: ErrNoTrainingData or ErrFactorization
func (r *Regression) LogMarginalLikelihood() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.logMarginalLikelihoodLocked()
}

// Calibration returns the probability integral transform of an observation:
// the standard normal CDF of the standardized residual (y − mean)/σ, where
// σ² is the predictive variance plus the observation noise. Well-calibrated
// models produce values uniformly distributed on (0, 1).
func (r *Regression) Calibration(x []float64, y float64) (float64, error) {
	mean, variance, err := r.Predict(x)
	if err != nil {
		return 0, err
	}

	r.mu.RLock()
	noise := r.likelihood.Noise()
	r.mu.RUnlock()

	return normalCDF((y - mean) / math.Sqrt(variance+noise)), nil
}

//////
// Internal helpers. Callers must hold the appropriate lock.
//////

func (r *Regression) logMarginalLikelihoodLocked() (float64, error) {
	if len(r.x) == 0 {
		return 0, ErrNoTrainingData
	}

	if r.post != nil {
		return r.post.logMarginalLikelihood(), nil
	}

	post, err := r.buildPosteriorLocked(false)
	if err != nil {
		return 0, err
	}

	return post.logMarginalLikelihood(), nil
}

// buildPosteriorLocked factorizes the posterior, using the structured path
// when the kernel carries an inducing grid and the exact dense path
// otherwise.
func (r *Regression) buildPosteriorLocked(withPredictive bool) (posterior, error) {
	if ski, ok := r.kernel.(*SKIKernel); ok {
		return newSKIPosterior(r.meanFn, ski, r.likelihood.Noise(), r.x, r.y, withPredictive)
	}

	return newDensePosterior(r.meanFn, r.kernel, r.likelihood.Noise(), r.x, r.y)
}

// parametersLocked gathers the trainable parameters in the order
// mean, kernel, likelihood.
func (r *Regression) parametersLocked() []float64 {
	params := r.meanFn.Params()
	params = append(params, r.kernel.Params()...)
	params = append(params, r.likelihood.Params()...)

	return params
}

// setParametersLocked distributes a flat parameter vector back to the
// mean, kernel, and likelihood, invalidating any cached posterior.
func (r *Regression) setParametersLocked(params []float64) {
	nm := len(r.meanFn.Params())
	nk := len(r.kernel.Params())

	r.meanFn.SetParams(params[:nm])
	r.kernel.SetParams(params[nm : nm+nk])
	r.likelihood.SetParams(params[nm+nk:])

	r.post = nil
}

// boundsLocked gathers the parameter bounds in the same order as
// parametersLocked.
func (r *Regression) boundsLocked() []ParameterBound[float64] {
	bounds := r.meanFn.Bounds()
	bounds = append(bounds, r.kernel.Bounds()...)
	bounds = append(bounds, r.likelihood.Bounds()...)

	return bounds
}

//////
// Factory.
//////

// NewRegression creates a Gaussian Process regression model from its three
// parts.
//
// Parameters:
// - meanFn: Prior mean function (e.g. NewConstantMean(0))
// - kernel: Covariance function, optionally wrapped in a SKIKernel
// - likelihood: Gaussian observation noise model
//
// Usage example:
//
//	grid, err := gpr.NewInducingGrid(30, 30)
//	if err != nil {
//	    // handle error
//	}
//
//	model := gpr.NewRegression(
//	    gpr.NewConstantMean(0),
//	    gpr.NewSKIKernel(gpr.NewRBFKernel(0.3, 1.0), grid),
//	    gpr.NewGaussianLikelihood(0.1),
//	)
//
// Important notes:
// - The model starts in training mode with no observations
// - Supply data with SetTrainingData, tune with Fit, then call Eval
// - Don't share mean, kernel, or likelihood instances between models.
func NewRegression(meanFn Mean, kernel Kernel, likelihood *GaussianLikelihood) *Regression {
	return &Regression{
		meanFn:     meanFn,
		kernel:     kernel,
		likelihood: likelihood,
	}
}
