package correlation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/correlation"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
)

func TestCalculator_PerfectLine(t *testing.T) {
	calc := correlation.NewCalculator("x", "y")
	for x := 1.0; x <= 10; x++ {
		require.True(t, calc.Update(x, 2*x+1))
	}

	fit, err := calc.Finalize()
	require.NoError(t, err)
	require.NotNil(t, fit.Correlation)
	require.NotNil(t, fit.Slope)
	require.NotNil(t, fit.Intercept)

	assert.Equal(t, 10, fit.N)
	assert.InDelta(t, 1.0, *fit.Correlation, 1e-9)
	assert.InDelta(t, 2.0, *fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, *fit.Intercept, 1e-9)
}

func TestCalculator_NegativeCorrelation(t *testing.T) {
	var calc correlation.Calculator
	for x := 1.0; x <= 5; x++ {
		calc.Update(x, -3*x+4)
	}

	fit, err := calc.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, -1.0, *fit.Correlation, 1e-9)
	assert.InDelta(t, -3.0, *fit.Slope, 1e-9)
	assert.InDelta(t, 4.0, *fit.Intercept, 1e-9)
}

func TestCalculator_KnownValue(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 5, 4, 5}

	var calc correlation.Calculator
	for i := range xs {
		calc.Update(xs[i], ys[i])
	}

	fit, err := calc.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, 30/math.Sqrt(50*30), *fit.Correlation, 1e-12)
	assert.InDelta(t, 0.6, *fit.Slope, 1e-12)
	assert.InDelta(t, 2.2, *fit.Intercept, 1e-12)
}

func TestCalculator_Symmetry(t *testing.T) {
	xs := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	ys := []float64{2, 7, 1, 8, 2, 8, 1, 8}

	var xy, yx correlation.Calculator
	for i := range xs {
		xy.Update(xs[i], ys[i])
		yx.Update(ys[i], xs[i])
	}

	a, err := xy.Finalize()
	require.NoError(t, err)
	b, err := yx.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, *a.Correlation, *b.Correlation, 1e-12)
}

func TestCalculator_SkipsNonFinite(t *testing.T) {
	var calc correlation.Calculator
	assert.False(t, calc.Update(math.NaN(), 1))
	assert.False(t, calc.Update(1, math.Inf(1)))
	assert.True(t, calc.Update(1, 1))
	assert.Equal(t, 1, calc.N())
}

func TestCalculator_InsufficientData(t *testing.T) {
	calc := correlation.NewCalculator("price", "volume")
	calc.Update(1, 2)

	_, err := calc.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInsufficientData)
	assert.Contains(t, err.Error(), "price,volume")

	var empty correlation.Calculator
	_, err = empty.Finalize()
	assert.ErrorIs(t, err, errors.ErrInsufficientData)
}

func TestCalculator_ZeroVariance(t *testing.T) {
	t.Run("constant y", func(t *testing.T) {
		var calc correlation.Calculator
		for x := 1.0; x <= 4; x++ {
			calc.Update(x, 7)
		}
		fit, err := calc.Finalize()
		require.NoError(t, err)
		assert.Nil(t, fit.Correlation)
		require.NotNil(t, fit.Slope)
		assert.InDelta(t, 0.0, *fit.Slope, 1e-12)
		assert.InDelta(t, 7.0, *fit.Intercept, 1e-12)
	})

	t.Run("constant x", func(t *testing.T) {
		var calc correlation.Calculator
		for y := 1.0; y <= 4; y++ {
			calc.Update(0.1, y)
		}
		fit, err := calc.Finalize()
		require.NoError(t, err)
		assert.Nil(t, fit.Correlation)
		assert.Nil(t, fit.Slope)
		assert.Nil(t, fit.Intercept)
	})
}

func TestCalculator_LargeOffsetSmallSpread(t *testing.T) {
	var calc correlation.Calculator
	for i := range 10 {
		calc.Update(1e6+0.1*float64(i), float64(i))
	}

	fit, err := calc.Finalize()
	require.NoError(t, err)
	require.NotNil(t, fit.Correlation)
	require.NotNil(t, fit.Slope)
	require.NotNil(t, fit.Intercept)
	assert.InDelta(t, 1.0, *fit.Correlation, 1e-6)
	assert.InDelta(t, 10.0, *fit.Slope, 1e-6)
	assert.InDelta(t, -1e7, *fit.Intercept, 1)
}

func TestCalculator_OffsetConstantAxis(t *testing.T) {
	var calc correlation.Calculator
	for i := range 5 {
		calc.Update(1e9+0.5, float64(i))
	}

	fit, err := calc.Finalize()
	require.NoError(t, err)
	assert.Nil(t, fit.Correlation)
	assert.Nil(t, fit.Slope)
}
