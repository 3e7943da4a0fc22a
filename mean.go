package gpr

import "math"

// ConstantMean is a prior mean function that returns the same trainable
// constant everywhere. It is the usual choice when nothing is known about
// the latent function's trend.
type ConstantMean struct {
	c float64
}

// NewConstantMean creates a constant mean initialized to c.
func NewConstantMean(c float64) *ConstantMean {
	return &ConstantMean{c: c}
}

// Value returns the constant, regardless of x.
func (m *ConstantMean) Value(_ []float64) float64 {
	return m.c
}

// Params returns [c].
func (m *ConstantMean) Params() []float64 {
	return []float64{m.c}
}

// SetParams overwrites [c].
func (m *ConstantMean) SetParams(p []float64) {
	if len(p) != 1 {
		panic("ConstantMean expects exactly one parameter")
	}

	m.c = p[0]
}

// Bounds returns a single unconstrained bound: the constant may take any
// sign, so it is optimized in linear space.
func (m *ConstantMean) Bounds() []ParameterBound[float64] {
	return []ParameterBound[float64]{{Min: -math.MaxFloat64, Max: math.MaxFloat64}}
}
