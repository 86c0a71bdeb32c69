package indicators

import "math"

// MACDPoint is one bar of the MACD indicator. Signal and Histogram are
// NaN until enough MACD values exist for the signal average.
type MACDPoint struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// HasSignal reports whether the signal line is defined for the point
func (p MACDPoint) HasSignal() bool {
	return !math.IsNaN(p.MACD) && !math.IsNaN(p.Signal)
}

// MACD returns the fast minus slow SMA-seeded EMA of values and its
// signal line. The first point corresponds to the slow-th input.
func MACD(values []float64, fast, slow, signal int) []MACDPoint {
	if fast <= 0 || slow <= fast || signal <= 0 || len(values) < slow {
		return nil
	}

	fastEMA := SMAEMA(values, fast)
	slowEMA := SMAEMA(values, slow)

	// align the fast EMA with the slow one
	offset := slow - fast
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalEMA := SMAEMA(line, signal)

	points := make([]MACDPoint, len(line))
	for i, m := range line {
		points[i] = MACDPoint{MACD: m, Signal: math.NaN(), Histogram: math.NaN()}
		if j := i - (signal - 1); j >= 0 && j < len(signalEMA) {
			points[i].Signal = signalEMA[j]
			points[i].Histogram = m - signalEMA[j]
		}
	}
	return points
}
