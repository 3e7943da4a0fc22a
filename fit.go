package gpr

import (
	"fmt"
	"math"
)

//////
// Fitting loop.
//////

// adamState holds the Adam optimizer moments, one pair per parameter.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1 - beta1) * grad
//	v_t = beta2 * v_{t-1} + (1 - beta2) * grad²
//	m_hat = m_t / (1 - beta1^t)  // Bias correction
//	v_hat = v_t / (1 - beta2^t)
//	param -= lr * m_hat / (sqrt(v_hat) + epsilon)
type adamState struct {
	beta1   float64
	beta2   float64
	epsilon float64

	// State (one per parameter)
	m []float64 // First moment (momentum)
	v []float64 // Second moment (variance)
	t int       // Time step (for bias correction)
}

func newAdamState(n int, cfg FitConfig) *adamState {
	return &adamState{
		beta1:   cfg.Beta1,
		beta2:   cfg.Beta2,
		epsilon: cfg.Epsilon,
		m:       make([]float64, n),
		v:       make([]float64, n),
	}
}

// step performs one Adam update of theta in place.
func (a *adamState) step(theta, grad []float64, lr float64) {
	a.t++

	// Bias correction factors
	bias1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	bias2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for j := range theta {
		a.m[j] = a.beta1*a.m[j] + (1.0-a.beta1)*grad[j]
		a.v[j] = a.beta2*a.v[j] + (1.0-a.beta2)*grad[j]*grad[j]

		mHat := a.m[j] / bias1
		vHat := a.v[j] / bias2

		theta[j] -= lr * mHat / (math.Sqrt(vHat) + a.epsilon)
	}
}

// Fit tunes the model's hyperparameters by gradient descent on the negative
// marginal log likelihood of the training data.
//
// Parameters:
// - cfg: FitConfig controlling the loop; start from DefaultFitConfig()
//
// Returns:
// - error: ErrInvalidConfig, ErrNoTrainingData, or a wrapped factorization
//   error if a step produced an unusable covariance matrix
//
// Usage example:
//
//	cfg := gpr.DefaultFitConfig()
//	cfg.Iterations = 30
//	cfg.LearnRate = 0.1
//
//	progress := make(chan gpr.TrainingUpdate, cfg.Iterations)
//	cfg.ProgressChan = progress
//
//	go func() {
//	    for update := range progress {
//	        fmt.Printf("iter %d/%d - loss: %.3f\n",
//	            update.Iteration, update.TotalIterations, update.Loss)
//	    }
//	}()
//
//	if err := model.Fit(cfg); err != nil {
//	    // handle error
//	}
//
// How it works:
// 1. Gathers the trainable parameters from the mean, kernel, and likelihood;
//    strictly positive parameters are mapped to log space
// 2. For each iteration:
//   - Evaluates the loss (negative marginal log likelihood)
//   - Computes a central-difference gradient over the parameter vector
//   - Takes one Adam step and clamps every parameter to its declared bound
//   - Sends a TrainingUpdate on cfg.ProgressChan (non-blocking)
//
// 3. Leaves the model in training mode with the final parameters applied
//
// Important notes:
// - The loop always runs exactly cfg.Iterations steps; there is no
//   convergence check and no early exit
// - Thread-safe: holds the model's write lock for the whole run
// - Call Eval afterwards to factorize the posterior for prediction.
func (r *Regression) Fit(cfg FitConfig) error {
	if cfg.Iterations <= 0 || cfg.LearnRate <= 0 || cfg.GradStep <= 0 {
		return ErrInvalidConfig
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.x) == 0 {
		return ErrNoTrainingData
	}

	// Fit implies training mode.
	r.evalMode = false
	r.post = nil

	bounds := r.boundsLocked()

	// Strictly positive parameters (kernel scales, noise) are optimized in
	// log space so a gradient step can never drive them negative.
	logSpace := make([]bool, len(bounds))
	for i, b := range bounds {
		logSpace[i] = b.Min > 0
	}

	toTheta := func(params []float64) []float64 {
		theta := make([]float64, len(params))
		for i, p := range params {
			if logSpace[i] {
				theta[i] = math.Log(p)
			} else {
				theta[i] = p
			}
		}

		return theta
	}

	fromTheta := func(theta []float64) []float64 {
		params := make([]float64, len(theta))
		for i, t := range theta {
			if logSpace[i] {
				params[i] = math.Exp(t)
			} else {
				params[i] = t
			}

			params[i] = bounds[i].Clamp(params[i])
		}

		return params
	}

	// loss applies theta to the model and evaluates the negative marginal
	// log likelihood.
	loss := func(theta []float64) (float64, error) {
		r.setParametersLocked(fromTheta(theta))

		mll, err := r.logMarginalLikelihoodLocked()
		if err != nil {
			return 0, err
		}

		return -mll, nil
	}

	// sendProgress pushes an update without ever blocking the loop.
	bestLoss := math.MaxFloat64

	sendProgress := func(iteration int, l float64) {
		if cfg.ProgressChan == nil {
			return
		}

		update := TrainingUpdate{
			Iteration:       iteration,
			TotalIterations: cfg.Iterations,
			Loss:            l,
			BestLoss:        bestLoss,
			Params:          r.parametersLocked(),
		}

		select {
		case cfg.ProgressChan <- update:
		default:
			// Skip update if channel is full.
		}
	}

	theta := toTheta(r.parametersLocked())
	grad := make([]float64, len(theta))
	adam := newAdamState(len(theta), cfg)

	for i := 0; i < cfg.Iterations; i++ {
		l, err := loss(theta)
		if err != nil {
			return fmt.Errorf("fit iteration %d: %w", i+1, err)
		}

		if l < bestLoss {
			bestLoss = l
		}

		// Central-difference gradient in theta space.
		for j := range theta {
			h := cfg.GradStep * math.Max(math.Abs(theta[j]), 1.0)

			orig := theta[j]

			theta[j] = orig + h

			lp, err := loss(theta)
			if err != nil {
				return fmt.Errorf("fit iteration %d: %w", i+1, err)
			}

			theta[j] = orig - h

			lm, err := loss(theta)
			if err != nil {
				return fmt.Errorf("fit iteration %d: %w", i+1, err)
			}

			theta[j] = orig
			grad[j] = (lp - lm) / (2 * h)
		}

		adam.step(theta, grad, cfg.LearnRate)

		// Apply the clamped parameters and re-derive theta so the optimizer
		// state stays consistent with what the model actually holds.
		r.setParametersLocked(fromTheta(theta))
		theta = toTheta(r.parametersLocked())

		sendProgress(i+1, l)
	}

	return nil
}
