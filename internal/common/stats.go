package common

import (
	"math"
	"slices"
)

// Sum returns Σ values; 0 for an empty slice.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return Sum(values) / float64(len(values))
}

// Median returns the middle value, averaging the two central values when the
// count is even. NaN for an empty slice. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(values)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-quantile (0 <= p <= 1) by linear interpolation at
// index (n-1)*p of the sorted values. NaN for an empty slice.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	p = math.Max(0, math.Min(1, p))
	sorted := sortedCopy(values)

	pos := float64(n-1) * p
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Min returns the smallest value, or NaN for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return slices.Min(values)
}

// Max returns the largest value, or NaN for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return slices.Max(values)
}

// StdDev returns the sample standard deviation. A single value has zero
// deviation; an empty slice yields NaN.
func StdDev(values []float64) float64 {
	n := len(values)
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Numbers coerces every value with ToNumber and keeps the finite results.
func Numbers[T any](values []T, get func(T) interface{}) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f := ToNumber(get(v)); !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted
}
