package indicators

import "math"

// Bands are Bollinger bands around a simple moving average
type Bands struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// Bollinger returns the bands of the last period values: the mean plus
// and minus k population standard deviations
func Bollinger(values []float64, period int, k float64) (Bands, bool) {
	if period <= 0 || len(values) < period {
		return Bands{}, false
	}

	window := values[len(values)-period:]

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	variance := 0.0
	for _, v := range window {
		variance += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(variance / float64(period))

	return Bands{
		Middle: mean,
		Upper:  mean + k*sd,
		Lower:  mean - k*sd,
	}, true
}
