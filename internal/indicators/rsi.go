package indicators

import "math"

// NeutralRSI is returned whenever RSI cannot be computed
const NeutralRSI = 50.0

// RSI returns the relative strength index of the latest value using a
// simple mean of gains and losses over the last period deltas.
//
// The first value has no predecessor and contributes a zero delta, so
// period values are enough for a result. Short input, a window with no
// losses, or any non-finite result gives NeutralRSI.
func RSI(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return NeutralRSI
	}

	var gains, losses float64
	for i := len(values) - period; i < len(values); i++ {
		if i == 0 {
			continue
		}
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains += delta
		} else if delta < 0 {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return NeutralRSI
	}

	rsi := 100 - 100/(1+avgGain/avgLoss)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return NeutralRSI
	}
	return rsi
}
