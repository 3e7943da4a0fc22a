package gpr

import "math"

//////
// Covariance functions.
//////

// RBFKernel implements the Radial Basis Function (also known as Gaussian or
// squared-exponential) kernel. Similarity between two points decreases
// exponentially with their squared distance.
//
// Mathematical formula:
//
//	k(a, b) = s² · exp(-‖a-b‖² / (2·ℓ²))
//
// where ℓ is the lengthscale and s² the output scale. Both are trainable
// hyperparameters with inclusive bounds.
//
// Usage example:
//
//	k := gpr.NewRBFKernel(0.3, 1.0)
//	similarity := k.Cov(
//	    []float64{0.1, 0.2},
//	    []float64{0.15, 0.25},
//	)
//
// Important notes:
// - Panics if input vectors have different lengths
// - Returns s² for identical points
// - Returns values close to 0 for distant points.
type RBFKernel struct {
	// lengthscale controls the smoothness of interpolation.
	// Larger values = smoother functions, wider influence of each point.
	lengthscale float64

	// outputScale is the prior variance s² of the latent function.
	outputScale float64

	lengthscaleBound ParameterBound[float64]
	outputScaleBound ParameterBound[float64]
}

// NewRBFKernel creates an RBF kernel with the given initial lengthscale and
// output scale and default bounds [1e-3, 1e3] for both.
func NewRBFKernel(lengthscale, outputScale float64) *RBFKernel {
	return &RBFKernel{
		lengthscale:      lengthscale,
		outputScale:      outputScale,
		lengthscaleBound: ParameterBound[float64]{Min: 1e-3, Max: 1e3},
		outputScaleBound: ParameterBound[float64]{Min: 1e-3, Max: 1e3},
	}
}

// SetLengthscaleBound overrides the default lengthscale bound.
func (k *RBFKernel) SetLengthscaleBound(b ParameterBound[float64]) {
	k.lengthscaleBound = b
}

// SetOutputScaleBound overrides the default output scale bound.
func (k *RBFKernel) SetOutputScaleBound(b ParameterBound[float64]) {
	k.outputScaleBound = b
}

// Cov returns the RBF covariance between a and b.
func (k *RBFKernel) Cov(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("input vectors must have the same length")
	}

	// Squared Euclidean distance.
	var sum float64

	for i := range a {
		diff := a[i] - b[i]

		sum += diff * diff
	}

	return k.outputScale * math.Exp(-sum/(2*k.lengthscale*k.lengthscale))
}

// Params returns [lengthscale, outputScale].
func (k *RBFKernel) Params() []float64 {
	return []float64{k.lengthscale, k.outputScale}
}

// SetParams overwrites [lengthscale, outputScale].
func (k *RBFKernel) SetParams(p []float64) {
	if len(p) != 2 {
		panic("RBFKernel expects exactly two parameters")
	}

	k.lengthscale = p[0]
	k.outputScale = p[1]
}

// Bounds returns the bounds for [lengthscale, outputScale].
func (k *RBFKernel) Bounds() []ParameterBound[float64] {
	return []ParameterBound[float64]{k.lengthscaleBound, k.outputScaleBound}
}

// Matern32Kernel implements the Matérn covariance function with smoothness
// parameter 3/2. It produces rougher sample paths than the RBF kernel and is
// often a better fit for physical processes.
//
// Mathematical formula:
//
//	k(a, b) = s² · (1 + λ·r) · exp(-λ·r),  λ = √3 / ℓ,  r = ‖a-b‖
type Matern32Kernel struct {
	lengthscale float64
	outputScale float64

	lengthscaleBound ParameterBound[float64]
	outputScaleBound ParameterBound[float64]
}

// NewMatern32Kernel creates a Matérn-3/2 kernel with the given initial
// lengthscale and output scale and default bounds [1e-3, 1e3] for both.
func NewMatern32Kernel(lengthscale, outputScale float64) *Matern32Kernel {
	return &Matern32Kernel{
		lengthscale:      lengthscale,
		outputScale:      outputScale,
		lengthscaleBound: ParameterBound[float64]{Min: 1e-3, Max: 1e3},
		outputScaleBound: ParameterBound[float64]{Min: 1e-3, Max: 1e3},
	}
}

// Cov returns the Matérn-3/2 covariance between a and b.
func (k *Matern32Kernel) Cov(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("input vectors must have the same length")
	}

	var sum float64

	for i := range a {
		diff := a[i] - b[i]

		sum += diff * diff
	}

	lr := math.Sqrt(3) / k.lengthscale * math.Sqrt(sum)

	return k.outputScale * (1 + lr) * math.Exp(-lr)
}

// Params returns [lengthscale, outputScale].
func (k *Matern32Kernel) Params() []float64 {
	return []float64{k.lengthscale, k.outputScale}
}

// SetParams overwrites [lengthscale, outputScale].
func (k *Matern32Kernel) SetParams(p []float64) {
	if len(p) != 2 {
		panic("Matern32Kernel expects exactly two parameters")
	}

	k.lengthscale = p[0]
	k.outputScale = p[1]
}

// Bounds returns the bounds for [lengthscale, outputScale].
func (k *Matern32Kernel) Bounds() []ParameterBound[float64] {
	return []ParameterBound[float64]{k.lengthscaleBound, k.outputScaleBound}
}
