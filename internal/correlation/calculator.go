// Package correlation computes Pearson correlation and a least-squares line
// over row streams of any length in constant memory, and draws bounded
// uniform samples of the (x, y) pairs for plotting.
package correlation

import (
	"math"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
)

// Calculator accumulates the running sums needed for Pearson correlation.
// Sums are kept relative to the first accepted pair so that data with a large
// offset and a small spread does not cancel to zero. The zero value is ready
// to use. A Calculator is owned by a single computation and is not safe for
// concurrent use.
type Calculator struct {
	n      int
	shiftX float64
	shiftY float64
	sumX   float64
	sumY   float64
	sumXY  float64
	sumX2  float64
	sumY2  float64

	xColumn string
	yColumn string
}

// NewCalculator creates a calculator whose errors name the two columns.
func NewCalculator(xColumn, yColumn string) *Calculator {
	return &Calculator{xColumn: xColumn, yColumn: yColumn}
}

// Update adds one pair. Pairs with a NaN or infinite member are skipped and
// Update reports false.
func (c *Calculator) Update(x, y float64) bool {
	if !finite(x) || !finite(y) {
		return false
	}
	if c.n == 0 {
		c.shiftX, c.shiftY = x, y
	}
	x -= c.shiftX
	y -= c.shiftY
	c.n++
	c.sumX += x
	c.sumY += y
	c.sumXY += x * y
	c.sumX2 += x * x
	c.sumY2 += y * y
	return true
}

// N returns the number of accepted pairs.
func (c *Calculator) N() int {
	return c.n
}

// Fit is the outcome of Finalize. A nil field is undefined for the data:
// Correlation when either axis has no variance, Slope and Intercept when x
// has none.
type Fit struct {
	N           int
	Correlation *float64
	Slope       *float64
	Intercept   *float64
}

// Finalize computes
//
//	r         = (nΣxy − ΣxΣy) / √((nΣx² − (Σx)²)(nΣy² − (Σy)²))
//	slope     = (nΣxy − ΣxΣy) / (nΣx² − (Σx)²)
//	intercept = ȳ − slope·x̄
//
// over the shifted sums, which leaves r and slope unchanged. An axis is
// undefined only when its variance term is zero. It fails with errors.ErrInsufficientData below two pairs.
func (c *Calculator) Finalize() (Fit, error) {
	if c.n < 2 {
		return Fit{}, errors.NewInsufficientDataError(orDefault(c.xColumn, "x"), orDefault(c.yColumn, "y"), c.n)
	}

	n := float64(c.n)
	cov := n*c.sumXY - c.sumX*c.sumY
	varX := n*c.sumX2 - c.sumX*c.sumX
	varY := n*c.sumY2 - c.sumY*c.sumY
	flatX := varX <= 0
	flatY := varY <= 0

	fit := Fit{N: c.n}
	if !flatX && !flatY {
		r := cov / math.Sqrt(varX*varY)
		r = math.Max(-1, math.Min(1, r))
		fit.Correlation = &r
	}
	if !flatX {
		slope := cov / varX
		meanX := c.shiftX + c.sumX/n
		meanY := c.shiftY + c.sumY/n
		intercept := meanY - slope*meanX
		fit.Slope = &slope
		fit.Intercept = &intercept
	}
	return fit, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
