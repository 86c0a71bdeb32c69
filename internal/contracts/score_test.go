package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScoreResult_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"below zero", -20, 0},
		{"zero", 0, 0},
		{"mid", 60, 60},
		{"hundred", 100, 100},
		{"above hundred", 130, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewScoreResult(tt.score).Score)
		})
	}
}

func TestScoreResult_Reasoning(t *testing.T) {
	r := NewScoreResult(90, "Strong Uptrend (Price 110 > EMA50 > EMA200)", "Bullish RSI (65)")
	assert.Equal(t, "Strong Uptrend (Price 110 > EMA50 > EMA200); Bullish RSI (65)", r.Reasoning())

	assert.Equal(t, "", NewScoreResult(50).Reasoning())
}

func TestScoreResult_JSONHasEmptyReasons(t *testing.T) {
	data, err := json.Marshal(NewScoreResult(50))
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":50,"reasons":[]}`, string(data))
}

func TestPriceSeries(t *testing.T) {
	var nilSeries *PriceSeries
	assert.True(t, nilSeries.Empty())
	assert.Nil(t, nilSeries.Closes())

	s := &PriceSeries{Symbol: "TCS", Bars: []PriceBar{{Close: 10}, {Close: 11.5}}}
	assert.False(t, s.Empty())
	assert.Equal(t, []float64{10, 11.5}, s.Closes())
}

func TestPriceSeries_LastPrice(t *testing.T) {
	tests := []struct {
		name   string
		series *PriceSeries
		want   float64
	}{
		{"nil series", nil, 0},
		{"no bars", &PriceSeries{}, 0},
		{"latest close", &PriceSeries{Bars: []PriceBar{{Close: 10}, {Close: 12}}}, 12},
		{"market price wins", &PriceSeries{Bars: []PriceBar{{Close: 12}}, MarketPrice: Float(12.4)}, 12.4},
		{"zero market price ignored", &PriceSeries{Bars: []PriceBar{{Close: 12}}, MarketPrice: Float(0)}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.series.LastPrice())
		})
	}
}

func TestPriceSeries_Column(t *testing.T) {
	s := &PriceSeries{Bars: []PriceBar{{High: 3, Volume: 100}, {High: 4, Volume: 250}}}
	assert.Equal(t, []float64{3, 4}, s.Column(func(b PriceBar) float64 { return b.High }))
	assert.Equal(t, []float64{100, 250}, s.Column(func(b PriceBar) float64 { return b.Volume }))
}

func TestFundamentalsSnapshot_HasPrice(t *testing.T) {
	var nilSnap *FundamentalsSnapshot
	assert.False(t, nilSnap.HasPrice())
	assert.False(t, (&FundamentalsSnapshot{}).HasPrice())
	assert.True(t, (&FundamentalsSnapshot{RegularMarketPrice: Float(0)}).HasPrice())
}
