package scoring

import (
	"context"
	"fmt"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/indicators"
	"github.com/wonny/stockscore/pkg/logger"
)

const (
	technicalBase = 50

	emaFastSpan = 50
	emaSlowSpan = 200
	rsiPeriod   = 14

	technicalErrorPrefix = "Analysis Error: "
)

// TechnicalIndicators are the latest-bar inputs to the technical score
type TechnicalIndicators struct {
	Close  float64 `json:"close"`
	EMA50  float64 `json:"ema_50"`
	EMA200 float64 `json:"ema_200"`
	RSI14  float64 `json:"rsi_14"`
}

// TechnicalScorer scores trend and momentum from one year of daily bars
// ⭐ SSOT: 기술적 점수 계산은 여기서만
type TechnicalScorer struct {
	provider contracts.MarketDataProvider
	logger   *logger.Logger
}

// NewTechnicalScorer creates a new technical scorer
func NewTechnicalScorer(provider contracts.MarketDataProvider, log *logger.Logger) *TechnicalScorer {
	return &TechnicalScorer{
		provider: provider,
		logger:   log,
	}
}

// Score fetches the symbol's daily history and scores it. It never fails:
// fetch errors, missing data and panics all end in a zero score.
func (s *TechnicalScorer) Score(ctx context.Context, symbol string) (result contracts.ScoreResult) {
	log := s.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"scorer": "technical",
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Technical scoring panicked")
			result = contracts.NewScoreResult(0, fmt.Sprintf("%s%v", technicalErrorPrefix, r))
		}
	}()

	series, err := s.provider.FetchDailyHistory(ctx, symbol, contracts.PeriodOneYear)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch daily history")
		return contracts.NewScoreResult(0, technicalErrorPrefix+err.Error())
	}

	if series.Empty() {
		log.Info("No daily history for symbol")
		return contracts.NewScoreResult(0, "No Live Data found for "+symbol)
	}

	ind := ComputeTechnicalIndicators(series.Closes())
	result = ScoreTechnical(ind)

	log.WithFields(map[string]interface{}{
		"close":   ind.Close,
		"ema_50":  ind.EMA50,
		"ema_200": ind.EMA200,
		"rsi_14":  ind.RSI14,
		"score":   result.Score,
	}).Debug("Calculated technical score")

	return result
}

// ComputeTechnicalIndicators derives the latest close, EMA50, EMA200 and
// RSI14 from a non-empty close series
func ComputeTechnicalIndicators(closes []float64) TechnicalIndicators {
	return TechnicalIndicators{
		Close:  indicators.Last(closes),
		EMA50:  indicators.Last(indicators.EMA(closes, emaFastSpan)),
		EMA200: indicators.Last(indicators.EMA(closes, emaSlowSpan)),
		RSI14:  indicators.RSI(closes, rsiPeriod),
	}
}

// ScoreTechnical applies the trend and RSI rules to the indicators.
// The trend rules are exclusive and checked in order; the RSI rule is
// always evaluated.
func ScoreTechnical(ind TechnicalIndicators) contracts.ScoreResult {
	score := technicalBase
	reasons := make([]string, 0, 2)

	switch {
	case ind.Close > ind.EMA50 && ind.EMA50 > ind.EMA200:
		score += 30
		reasons = append(reasons, fmt.Sprintf("Strong Uptrend (Price %.0f > EMA50 > EMA200)", ind.Close))
	case ind.Close < ind.EMA50 && ind.EMA50 < ind.EMA200:
		score -= 30
		reasons = append(reasons, fmt.Sprintf("Downtrend (Price %.0f < EMA50 < EMA200)", ind.Close))
	case ind.Close > ind.EMA200:
		score += 10
		reasons = append(reasons, "Above 200 EMA (Long term bullish)")
	}

	rsi := ind.RSI14
	switch {
	case rsi >= 50 && rsi <= 70:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Bullish RSI (%.0f)", rsi))
	case rsi > 70:
		score -= 10
		reasons = append(reasons, fmt.Sprintf("Overbought RSI (%.0f)", rsi))
	case rsi < 30:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Oversold RSI (%.0f) - Bounce Candidate", rsi))
	}

	return contracts.NewScoreResult(score, reasons...)
}
