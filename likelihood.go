package gpr

// GaussianLikelihood models homoskedastic observation noise layered on top
// of the latent Gaussian Process: observations are the latent function plus
// zero-mean Gaussian noise with trainable variance σ².
//
// The noise variance is a bounded, strictly positive hyperparameter; the
// fitting loop optimizes it in log space like the kernel scales.
type GaussianLikelihood struct {
	// noise is the observation noise variance σ².
	noise float64

	noiseBound ParameterBound[float64]
}

// NewGaussianLikelihood creates a Gaussian likelihood with the given initial
// noise variance and a default bound of [1e-6, 1e2].
func NewGaussianLikelihood(noise float64) *GaussianLikelihood {
	return &GaussianLikelihood{
		noise:      noise,
		noiseBound: ParameterBound[float64]{Min: 1e-6, Max: 1e2},
	}
}

// SetNoiseBound overrides the default noise bound.
func (l *GaussianLikelihood) SetNoiseBound(b ParameterBound[float64]) {
	l.noiseBound = b
}

// Noise returns the current noise variance σ².
func (l *GaussianLikelihood) Noise() float64 {
	return l.noise
}

// Params returns [noise].
func (l *GaussianLikelihood) Params() []float64 {
	return []float64{l.noise}
}

// SetParams overwrites [noise].
func (l *GaussianLikelihood) SetParams(p []float64) {
	if len(p) != 1 {
		panic("GaussianLikelihood expects exactly one parameter")
	}

	l.noise = p[0]
}

// Bounds returns the bound for [noise].
func (l *GaussianLikelihood) Bounds() []ParameterBound[float64] {
	return []ParameterBound[float64]{l.noiseBound}
}
