package scoring

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/pkg/logger"
)

func TestScoreTechnical(t *testing.T) {
	tests := []struct {
		name        string
		ind         TechnicalIndicators
		wantScore   int
		wantReasons []string
	}{
		{
			name:        "strong uptrend with bullish RSI",
			ind:         TechnicalIndicators{Close: 110, EMA50: 100, EMA200: 90, RSI14: 65},
			wantScore:   90,
			wantReasons: []string{"Strong Uptrend (Price 110 > EMA50 > EMA200)", "Bullish RSI (65)"},
		},
		{
			name:        "downtrend with oversold RSI",
			ind:         TechnicalIndicators{Close: 80, EMA50: 100, EMA200: 110, RSI14: 25},
			wantScore:   40,
			wantReasons: []string{"Downtrend (Price 80 < EMA50 < EMA200)", "Oversold RSI (25) - Bounce Candidate"},
		},
		{
			name:        "above 200 EMA only",
			ind:         TechnicalIndicators{Close: 95, EMA50: 100, EMA200: 90, RSI14: 40},
			wantScore:   60,
			wantReasons: []string{"Above 200 EMA (Long term bullish)"},
		},
		{
			name:        "no trend and neutral RSI",
			ind:         TechnicalIndicators{Close: 85, EMA50: 80, EMA200: 90, RSI14: 45},
			wantScore:   50,
			wantReasons: []string{},
		},
		{
			name:        "overbought in uptrend",
			ind:         TechnicalIndicators{Close: 120, EMA50: 100, EMA200: 90, RSI14: 82.4},
			wantScore:   70,
			wantReasons: []string{"Strong Uptrend (Price 120 > EMA50 > EMA200)", "Overbought RSI (82)"},
		},
		{
			name:        "downtrend overbought is the floor",
			ind:         TechnicalIndicators{Close: 80, EMA50: 100, EMA200: 110, RSI14: 75},
			wantScore:   10,
			wantReasons: []string{"Downtrend (Price 80 < EMA50 < EMA200)", "Overbought RSI (75)"},
		},
		{
			name:        "uptrend oversold is the ceiling",
			ind:         TechnicalIndicators{Close: 110, EMA50: 100, EMA200: 90, RSI14: 10},
			wantScore:   100,
			wantReasons: []string{"Strong Uptrend (Price 110 > EMA50 > EMA200)", "Oversold RSI (10) - Bounce Candidate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreTechnical(tt.ind)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantReasons, got.Reasons)
		})
	}
}

func TestScoreTechnical_RSIBoundaries(t *testing.T) {
	flat := TechnicalIndicators{Close: 100, EMA50: 100, EMA200: 100}

	tests := []struct {
		rsi  float64
		want int
	}{
		{29.9, 70},
		{30, 50},
		{49.9, 50},
		{50, 60},
		{70, 60},
		{70.1, 40},
	}

	for _, tt := range tests {
		ind := flat
		ind.RSI14 = tt.rsi
		assert.Equal(t, tt.want, ScoreTechnical(ind).Score, "rsi=%v", tt.rsi)
	}
}

func TestScoreTechnical_EqualEMAsIsNotATrend(t *testing.T) {
	// close > EMA50 == EMA200 matches neither chain, falls through to the 200 check
	got := ScoreTechnical(TechnicalIndicators{Close: 110, EMA50: 100, EMA200: 100, RSI14: 40})
	assert.Equal(t, 60, got.Score)
	assert.Equal(t, []string{"Above 200 EMA (Long term bullish)"}, got.Reasons)
}

func TestComputeTechnicalIndicators(t *testing.T) {
	closes := linear(250, 100, 1)
	ind := ComputeTechnicalIndicators(closes)

	assert.Equal(t, 349.0, ind.Close)
	assert.Less(t, ind.EMA50, ind.Close)
	assert.Less(t, ind.EMA200, ind.EMA50)
	assert.Equal(t, 50.0, ind.RSI14, "a window with no losses is neutral")
}

func TestTechnicalScorer_Score(t *testing.T) {
	tests := []struct {
		name          string
		provider      *fakeProvider
		wantScore     int
		wantReasoning string
	}{
		{
			name:          "empty series",
			provider:      &fakeProvider{series: &contracts.PriceSeries{Symbol: "NOPE"}},
			wantScore:     0,
			wantReasoning: "No Live Data found for NOPE",
		},
		{
			name:          "nil series",
			provider:      &fakeProvider{},
			wantScore:     0,
			wantReasoning: "No Live Data found for NOPE",
		},
		{
			name:          "fetch error",
			provider:      &fakeProvider{seriesErr: errUpstream},
			wantScore:     0,
			wantReasoning: "Analysis Error: yahoo: status 503",
		},
		{
			name:          "provider panic",
			provider:      &fakeProvider{panicMsg: "schema drift"},
			wantScore:     0,
			wantReasoning: "Analysis Error: schema drift",
		},
		{
			name:          "steady rally",
			provider:      &fakeProvider{series: seriesOf(linear(250, 100, 1))},
			wantScore:     90,
			wantReasoning: "Strong Uptrend (Price 349 > EMA50 > EMA200); Bullish RSI (50)",
		},
		{
			name:          "steady decline",
			provider:      &fakeProvider{series: seriesOf(linear(250, 500, -1))},
			wantScore:     40,
			wantReasoning: "Downtrend (Price 251 < EMA50 < EMA200); Oversold RSI (0) - Bounce Candidate",
		},
		{
			name:          "single bar uses neutral RSI",
			provider:      &fakeProvider{series: seriesOf([]float64{100})},
			wantScore:     60,
			wantReasoning: "Bullish RSI (50)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewTechnicalScorer(tt.provider, logger.Nop())
			got := scorer.Score(context.Background(), "NOPE")

			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantReasoning, got.Reasoning())
		})
	}
}

func TestTechnicalScorer_FetchesOneYear(t *testing.T) {
	provider := &fakeProvider{series: seriesOf(linear(20, 10, 1))}
	NewTechnicalScorer(provider, logger.Nop()).Score(context.Background(), "INFY")

	require.Len(t, provider.historyCalls, 1)
	assert.Equal(t, "INFY/1y", provider.historyCalls[0])
}

func TestTechnicalScorer_Idempotent(t *testing.T) {
	provider := &fakeProvider{series: seriesOf(randomWalk(rand.New(rand.NewSource(7)), 252))}
	scorer := NewTechnicalScorer(provider, logger.Nop())

	first := scorer.Score(context.Background(), "TCS")
	second := scorer.Score(context.Background(), "TCS")
	assert.Equal(t, first, second)
}

func TestTechnicalScorer_ScoreAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		closes := randomWalk(rng, 1+rng.Intn(300))
		got := NewTechnicalScorer(&fakeProvider{series: seriesOf(closes)}, logger.Nop()).
			Score(context.Background(), "RND")

		require.GreaterOrEqual(t, got.Score, 0)
		require.LessOrEqual(t, got.Score, 100)
	}
}

func randomWalk(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		price = math.Max(1, price*(1+rng.NormFloat64()*0.02))
		out[i] = price
	}
	return out
}
