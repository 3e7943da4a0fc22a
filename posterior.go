package gpr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//////
// Posterior factorizations.
//////

// log2Pi is math.Log(2 * math.Pi).
const log2Pi = 1.8378770664093454

// posterior is a factorized Gaussian Process posterior: it answers point
// predictions and reports the marginal log likelihood of the training data
// under the hyperparameters it was built with.
type posterior interface {
	predict(x []float64) (mean, variance float64, err error)
	logMarginalLikelihood() float64
}

// residual returns y - μ(x) as a vector.
func residual(meanFn Mean, x [][]float64, y []float64) *mat.VecDense {
	r := mat.NewVecDense(len(y), nil)

	for i := range y {
		r.SetVec(i, y[i]-meanFn.Value(x[i]))
	}

	return r
}

// densePosterior is the exact posterior: a Cholesky factorization of the
// full n×n gram matrix K(X,X) + σ²I. Solves cost O(n³); fine for small
// training sets and the reference the structured path is checked against.
type densePosterior struct {
	meanFn Mean
	kernel Kernel
	x      [][]float64

	chol  mat.Cholesky
	alpha *mat.VecDense
	mll   float64
}

func newDensePosterior(meanFn Mean, kernel Kernel, noise float64, x [][]float64, y []float64) (*densePosterior, error) {
	n := len(x)

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := kernel.Cov(x[i], x[j])

			if i == j {
				v += noise
			}

			k.SetSym(i, j, v)
		}
	}

	p := &densePosterior{
		meanFn: meanFn,
		kernel: kernel,
		x:      x,
	}

	if ok := p.chol.Factorize(k); !ok {
		return nil, ErrFactorization
	}

	r := residual(meanFn, x, y)

	p.alpha = mat.NewVecDense(n, nil)
	if err := p.chol.SolveVecTo(p.alpha, r); err != nil {
		return nil, fmt.Errorf("solving for posterior weights: %w", err)
	}

	p.mll = -0.5*mat.Dot(r, p.alpha) - 0.5*p.chol.LogDet() - 0.5*float64(n)*log2Pi

	return p, nil
}

func (p *densePosterior) predict(x []float64) (float64, float64, error) {
	n := len(p.x)

	kstar := mat.NewVecDense(n, nil)
	for i := range p.x {
		kstar.SetVec(i, p.kernel.Cov(x, p.x[i]))
	}

	mean := p.meanFn.Value(x) + mat.Dot(kstar, p.alpha)

	v := mat.NewVecDense(n, nil)
	if err := p.chol.SolveVecTo(v, kstar); err != nil {
		return 0, 0, fmt.Errorf("solving for predictive variance: %w", err)
	}

	variance := p.kernel.Cov(x, x) - mat.Dot(kstar, v)

	// Guard against tiny negative values from round-off.
	if variance < 0 {
		variance = 0
	}

	return mean, variance, nil
}

func (p *densePosterior) logMarginalLikelihood() float64 {
	return p.mll
}

// skiPosterior is the structured kernel interpolation posterior. With
// K̂ = σ²I + W·Kuu·Wᵀ, the Woodbury identity and the matrix determinant
// lemma reduce every solve and the log determinant to two m×m Cholesky
// factorizations, m being the inducing grid size:
//
//	K̂⁻¹ = σ⁻²I − σ⁻²·W·C⁻¹·Wᵀ·σ⁻²,   C = Kuu⁻¹ + WᵀW/σ²
//	log|K̂| = log|C| + log|Kuu| + n·log σ²
//
// Predictions fold the remaining algebra into two small precomputed
// objects: a mean weight vector t = Kuu·Wᵀ·K̂⁻¹·(y−μ) and a covariance
// kernel v = Kuu − Kuu·(Wᵀ·K̂⁻¹·W)·Kuu, so that at a test point with
// interpolation weights w*
//
//	mean     = μ + w*·t
//	variance = w*·v·w*ᵀ
type skiPosterior struct {
	meanFn Mean
	grid   *InducingGrid

	t   *mat.VecDense
	v   *mat.Dense // nil when built for likelihood evaluation only
	mll float64
}

// newSKIPosterior factorizes the interpolated gram matrix. When
// withPredictive is false, only the marginal log likelihood and the mean
// weights are computed, which is what each step of the fitting loop needs.
func newSKIPosterior(meanFn Mean, kernel *SKIKernel, noise float64, x [][]float64, y []float64, withPredictive bool) (*skiPosterior, error) {
	n := len(x)
	m := kernel.Grid().Len()

	w := kernel.Weights(x)
	a := kernel.Kuu()

	var cholA mat.Cholesky
	if ok := cholA.Factorize(a); !ok {
		return nil, ErrFactorization
	}

	var ainv mat.SymDense
	if err := cholA.InverseTo(&ainv); err != nil {
		return nil, fmt.Errorf("inverting inducing gram matrix: %w", err)
	}

	// B = WᵀW.
	var b mat.Dense
	b.Mul(w.T(), w)

	// C = Kuu⁻¹ + B/σ².
	c := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			c.SetSym(i, j, ainv.At(i, j)+b.At(i, j)/noise)
		}
	}

	var cholC mat.Cholesky
	if ok := cholC.Factorize(c); !ok {
		return nil, ErrFactorization
	}

	r := residual(meanFn, x, y)

	// K̂⁻¹(y−μ) via Woodbury.
	wtr := mat.NewVecDense(m, nil)
	wtr.MulVec(w.T(), r)

	u := mat.NewVecDense(m, nil)
	if err := cholC.SolveVecTo(u, wtr); err != nil {
		return nil, fmt.Errorf("solving capacitance system: %w", err)
	}

	wu := mat.NewVecDense(n, nil)
	wu.MulVec(w, u)

	alpha := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		alpha.SetVec(i, (r.AtVec(i)-wu.AtVec(i)/noise)/noise)
	}

	p := &skiPosterior{
		meanFn: meanFn,
		grid:   kernel.Grid(),
	}

	logDet := cholC.LogDet() + cholA.LogDet() + float64(n)*math.Log(noise)

	p.mll = -0.5*mat.Dot(r, alpha) - 0.5*logDet - 0.5*float64(n)*log2Pi

	// t = Kuu·Wᵀ·K̂⁻¹(y−μ).
	wta := mat.NewVecDense(m, nil)
	wta.MulVec(w.T(), alpha)

	p.t = mat.NewVecDense(m, nil)
	p.t.MulVec(a, wta)

	if !withPredictive {
		return p, nil
	}

	// M = Wᵀ·K̂⁻¹·W = B/σ² − B·C⁻¹·B/σ⁴.
	var cinvB mat.Dense
	if err := cholC.SolveTo(&cinvB, &b); err != nil {
		return nil, fmt.Errorf("solving capacitance system: %w", err)
	}

	var bcb mat.Dense
	bcb.Mul(&b, &cinvB)

	mm := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			mm.Set(i, j, b.At(i, j)/noise-bcb.At(i, j)/(noise*noise))
		}
	}

	// v = Kuu − Kuu·M·Kuu.
	var am, ama mat.Dense
	am.Mul(a, mm)
	ama.Mul(&am, a)

	p.v = mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			p.v.Set(i, j, a.At(i, j)-ama.At(i, j))
		}
	}

	return p, nil
}

func (p *skiPosterior) predict(x []float64) (float64, float64, error) {
	if p.v == nil {
		return 0, 0, ErrNotFitted
	}

	idx, wts := p.grid.Interpolate(x)

	mean := p.meanFn.Value(x)
	for i := range idx {
		mean += wts[i] * p.t.AtVec(idx[i])
	}

	var variance float64

	for i := range idx {
		for j := range idx {
			variance += wts[i] * wts[j] * p.v.At(idx[i], idx[j])
		}
	}

	if variance < 0 {
		variance = 0
	}

	return mean, variance, nil
}

func (p *skiPosterior) logMarginalLikelihood() float64 {
	return p.mll
}
