package indicators

import "math"

// SMAEMA returns the exponential moving average seeded with the simple
// mean of the first period values. The output starts at the period-th
// input, so it has len(values)-period+1 elements.
func SMAEMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	k := 2.0 / (float64(period) + 1.0)
	out := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	prev := seed / float64(period)
	out = append(out, prev)

	for _, v := range values[period:] {
		prev = (v-prev)*k + prev
		out = append(out, prev)
	}
	return out
}

// WilderRSI returns the RSI of the latest value with Wilder smoothing:
// the first averages are simple means over period changes, later ones
// decay by (period-1)/period. A window with no losses gives 100.
// ok is false when there are not more than period values.
func WilderRSI(values []float64, period int) (rsi float64, ok bool) {
	if period <= 0 || len(values) <= period {
		return math.NaN(), false
	}

	var avgGain, avgLoss float64
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := math.Max(delta, 0), math.Max(-delta, 0)

		if i <= period {
			avgGain += gain / float64(period)
			avgLoss += loss / float64(period)
			continue
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgLoss == 0:
		return 100, true
	case avgGain == 0:
		return 0, true
	}
	return 100 - 100/(1+avgGain/avgLoss), true
}
