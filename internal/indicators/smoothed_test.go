package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMAEMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   []float64
	}{
		{"seeded with simple mean", []float64{1, 2, 3, 4, 5}, 3, []float64{2, 3, 4}},
		{"exactly period values", []float64{2, 4, 6}, 3, []float64{4}},
		{"too short", []float64{1, 2}, 3, nil},
		{"invalid period", []float64{1, 2}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMAEMA(tt.values, tt.period)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestWilderRSI(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"period values are not enough", ramp(14, 1), 0, false},
		{"mixed first window", zigzag(100, 15, 2, -1), 100 - 100/(1+2.0), true},
		{"no losses", ramp(40, 1), 100, true},
		{"no gains", ramp(40, -1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WilderRSI(tt.values, 14)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			} else {
				assert.True(t, math.IsNaN(got))
			}
		})
	}
}

func TestWilderRSI_SmoothsAfterFirstWindow(t *testing.T) {
	// first window: avg gain 1, avg loss 0.5; then one flat step
	values := append(zigzag(100, 15, 2, -1), 0)
	values[15] = values[14]

	got, ok := WilderRSI(values, 14)
	require.True(t, ok)

	gain, loss := 1.0*13/14, 0.5*13/14
	assert.InDelta(t, 100-100/(1+gain/loss), got, 1e-9)
}

func TestMACD_Alignment(t *testing.T) {
	points := MACD(ramp(40, 1), 12, 26, 9)
	require.Len(t, points, 15)

	assert.False(t, points[7].HasSignal())
	assert.True(t, points[8].HasSignal())
	assert.True(t, points[14].HasSignal())
}

func TestMACD_LinearSeries(t *testing.T) {
	// both averages lag a linear series by (period-1)/2 steps
	points := MACD(ramp(60, 1), 12, 26, 9)
	last := points[len(points)-1]

	assert.InDelta(t, 7.0, last.MACD, 1e-9)
	assert.InDelta(t, 7.0, last.Signal, 1e-9)
	assert.InDelta(t, 0.0, last.Histogram, 1e-9)
}

func TestMACD_InvalidInput(t *testing.T) {
	assert.Nil(t, MACD(ramp(25, 1), 12, 26, 9))
	assert.Nil(t, MACD(ramp(60, 1), 26, 12, 9))
	assert.Nil(t, MACD(ramp(60, 1), 12, 26, 0))
}

func TestADX(t *testing.T) {
	closes := ramp(40, 1)
	high, low := shift(closes, 1), shift(closes, -1)

	t.Run("one-directional trend", func(t *testing.T) {
		got, ok := ADX(high, low, closes, 14)
		require.True(t, ok)
		assert.InDelta(t, 100.0, got, 1e-9)
	})

	t.Run("flat market", func(t *testing.T) {
		flat := repeat(40, 100)
		got, ok := ADX(shift(flat, 1), shift(flat, -1), flat, 14)
		require.True(t, ok)
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("exactly twice the period", func(t *testing.T) {
		_, ok := ADX(high[:28], low[:28], closes[:28], 14)
		assert.True(t, ok)
	})

	t.Run("too short", func(t *testing.T) {
		got, ok := ADX(high[:27], low[:27], closes[:27], 14)
		assert.False(t, ok)
		assert.True(t, math.IsNaN(got))
	})

	t.Run("misaligned inputs", func(t *testing.T) {
		_, ok := ADX(high[:30], low, closes, 14)
		assert.False(t, ok)
	})
}

func TestBollinger(t *testing.T) {
	// mean 5, population standard deviation 2
	values := []float64{100, 2, 4, 4, 4, 5, 5, 7, 9}

	bands, ok := Bollinger(values, 8, 2)
	require.True(t, ok)
	assert.InDelta(t, 5.0, bands.Middle, 1e-9)
	assert.InDelta(t, 9.0, bands.Upper, 1e-9)
	assert.InDelta(t, 1.0, bands.Lower, 1e-9)

	_, ok = Bollinger(values[:7], 8, 2)
	assert.False(t, ok)
}

func shift(values []float64, by float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + by
	}
	return out
}
