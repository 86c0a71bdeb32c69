// Package indicators computes price indicators over close series.
package indicators

import "math"

// EMA returns the exponential moving average of values with the given
// span, one output per input. alpha = 2/(span+1); the recursion is seeded
// with the first value, so out[0] == values[0].
func EMA(values []float64, span int) []float64 {
	if span <= 0 || len(values) == 0 {
		return nil
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Last returns the final element of values, or NaN if there is none
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}
