package indicators

import "math"

// ADX returns the latest average directional index over high/low/close
// bars using Wilder smoothing. ok is false when the inputs are misaligned
// or shorter than 2*period bars.
func ADX(high, low, close []float64, period int) (adx float64, ok bool) {
	n := len(close)
	if period <= 0 || len(high) != n || len(low) != n || n < 2*period {
		return math.NaN(), false
	}

	var smTR, smPlus, smMinus float64
	var dxSum float64
	dxCount := 0

	for i := 1; i < n; i++ {
		tr := math.Max(high[i]-low[i], math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))

		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		plusDM, minusDM := 0.0, 0.0
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		if i <= period {
			smTR += tr
			smPlus += plusDM
			smMinus += minusDM
			if i < period {
				continue
			}
		} else {
			smTR = smTR - smTR/float64(period) + tr
			smPlus = smPlus - smPlus/float64(period) + plusDM
			smMinus = smMinus - smMinus/float64(period) + minusDM
		}

		dx := directionalIndex(smTR, smPlus, smMinus)

		// the first ADX is the mean of period DX values, then Wilder-smoothed
		if dxCount < period {
			dxSum += dx
			dxCount++
			if dxCount == period {
				adx = dxSum / float64(period)
				ok = true
			}
			continue
		}
		adx = (adx*float64(period-1) + dx) / float64(period)
	}

	if !ok {
		return math.NaN(), false
	}
	return adx, true
}

func directionalIndex(tr, plusDM, minusDM float64) float64 {
	if tr == 0 {
		return 0
	}
	plusDI := 100 * plusDM / tr
	minusDI := 100 * minusDM / tr
	if plusDI+minusDI == 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}
