package scoring

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/pkg/logger"
)

const (
	fundamentalPoints = 25

	minReturnOnEquity = 0.15
	minRevenueGrowth  = 0.15
	minProfitMargin   = 0.10
	maxDebtToEquity   = 50.0

	// debt-to-equity assumed when the provider omits it; fails the check
	defaultDebtToEquity = 100.0

	fundamentalErrorPrefix = "Fundamental Error: "
)

// FundamentalScorer scores a company's financial ratios
// ⭐ SSOT: 재무 점수 계산은 여기서만
type FundamentalScorer struct {
	provider contracts.MarketDataProvider
	logger   *logger.Logger
}

// NewFundamentalScorer creates a new fundamental scorer
func NewFundamentalScorer(provider contracts.MarketDataProvider, log *logger.Logger) *FundamentalScorer {
	return &FundamentalScorer{
		provider: provider,
		logger:   log,
	}
}

// Score fetches the symbol's fundamentals and scores them. It never fails.
func (s *FundamentalScorer) Score(ctx context.Context, symbol string) (result contracts.ScoreResult) {
	log := s.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"scorer": "fundamental",
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Fundamental scoring panicked")
			result = contracts.NewScoreResult(0, fmt.Sprintf("%s%v", fundamentalErrorPrefix, r))
		}
	}()

	snapshot, err := s.provider.FetchFundamentals(ctx, symbol)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch fundamentals")
		return contracts.NewScoreResult(0, fundamentalErrorPrefix+err.Error())
	}

	if !snapshot.HasPrice() {
		log.Info("No fundamentals for symbol")
		return contracts.NewScoreResult(0, "No Fundamental Info found")
	}

	result = ScoreFundamentals(snapshot)

	log.WithField("score", result.Score).Debug("Calculated fundamental score")
	return result
}

// ScoreFundamentals runs the four independent ratio checks, each worth
// 25 points. A missing or zero metric fails its check.
func ScoreFundamentals(f *contracts.FundamentalsSnapshot) contracts.ScoreResult {
	score := 0
	reasons := make([]string, 0, 4)

	if roe, ok := present(f.ReturnOnEquity); ok && roe > minReturnOnEquity {
		score += fundamentalPoints
		reasons = append(reasons, fmt.Sprintf("High ROE (%.1f%%)", roe*100))
	}

	if growth, ok := present(f.RevenueGrowth); ok && growth > minRevenueGrowth {
		score += fundamentalPoints
		reasons = append(reasons, fmt.Sprintf("Strong Rev Growth (%.1f%%)", growth*100))
	}

	if margin, ok := present(f.ProfitMargins); ok && margin > minProfitMargin {
		score += fundamentalPoints
		reasons = append(reasons, fmt.Sprintf("Healthy Margins (%.1f%%)", margin*100))
	}

	debt := defaultDebtToEquity
	if f.DebtToEquity != nil {
		debt = *f.DebtToEquity
	}
	if debt != 0 && debt < maxDebtToEquity {
		score += fundamentalPoints
		reasons = append(reasons, "Low Debt ("+shortestDecimal(debt)+"%)")
	}

	if score == 0 {
		reasons = append(reasons, "Weak Fundamentals")
	}

	return contracts.NewScoreResult(score, reasons...)
}

// shortestDecimal prints the shortest round-trip form of v and always
// keeps a fractional part, so 40 prints as "40.0" and 12.345 as "12.345"
func shortestDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// present returns the metric and whether it is reported and non-zero
func present(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}
