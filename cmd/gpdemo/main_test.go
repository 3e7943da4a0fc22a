package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesfsp/gpr"
)

func TestTargetAtOrigin(t *testing.T) {
	assert.Equal(t, 0.0, target(0, 0))
}

func TestTargetPeriodicity(t *testing.T) {
	// sin(2π(x0+x1)) is 1-periodic in each coordinate.
	for _, p := range [][2]float64{{0.1, 0.2}, {0.37, 0.81}, {0.9, 0.05}} {
		assert.InDelta(t, target(p[0], p[1]), target(p[0]+1, p[1]), 1e-9)
		assert.InDelta(t, target(p[0], p[1]), target(p[0], p[1]+1), 1e-9)
	}
}

func TestTargetKnownValues(t *testing.T) {
	assert.InDelta(t, 1.0, target(0.125, 0.125), 1e-12)  // sin(π/2)
	assert.InDelta(t, -1.0, target(0.375, 0.375), 1e-12) // sin(3π/2)
}

func TestSmallestGridEndToEnd(t *testing.T) {
	points, err := gpr.UnitGrid(2)
	require.NoError(t, err)

	require.Equal(t, [][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}, points)

	// sin(0), sin(2π), sin(2π), sin(4π): all zero up to floating-point
	// epsilon.
	values := evaluate(points)
	for i, v := range values {
		assert.InDelta(t, 0.0, v, 1e-12, "point %d", i)
	}
}

func TestEvaluateMatchesTarget(t *testing.T) {
	points, err := gpr.UnitGrid(3)
	require.NoError(t, err)

	values := evaluate(points)
	require.Len(t, values, len(points))

	for i, p := range points {
		assert.Equal(t, math.Sin(2*math.Pi*(p[0]+p[1])), values[i])
	}
}
