package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/indicators"
	"github.com/wonny/stockscore/pkg/logger"
)

const (
	scanBase    = 50
	scanMinBars = 50

	adxPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerWidth  = 2.0
	volumeWindow    = 20

	strongTrendADX = 25.0

	scanErrorPrefix    = "Scan Error: "
	insufficientReason = "Insufficient Data"
)

// ScanIndicators are the latest-bar inputs to the composite scan.
// NaN marks an indicator the history was too short to compute.
type ScanIndicators struct {
	Price       float64 `json:"price"`
	EMA50       float64 `json:"ema_50"`
	EMA200      float64 `json:"ema_200"`
	ADX14       float64 `json:"adx_14"`
	RSI14       float64 `json:"rsi_14"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macd_signal"`
	PrevMACD    float64 `json:"prev_macd"`
	PrevSignal  float64 `json:"prev_signal"`
	LowerBand   float64 `json:"lower_band"`
	VolumeSurge float64 `json:"volume_surge"`
}

// ScanScorer combines trend strength, momentum, volatility bands and
// volume into one score with an action label
// ⭐ SSOT: 종합 스캔 점수 계산은 여기서만
type ScanScorer struct {
	provider contracts.MarketDataProvider
	logger   *logger.Logger
}

// NewScanScorer creates a new scan scorer
func NewScanScorer(provider contracts.MarketDataProvider, log *logger.Logger) *ScanScorer {
	return &ScanScorer{
		provider: provider,
		logger:   log,
	}
}

// Scan fetches one year of daily bars and scores them. It never fails:
// errors and panics end in a zero score with a HOLD label.
func (s *ScanScorer) Scan(ctx context.Context, symbol string) (result contracts.ScanResult) {
	log := s.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"scorer": "scan",
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Scan panicked")
			result = scanFailure(symbol, fmt.Sprintf("%s%v", scanErrorPrefix, r))
		}
	}()

	series, err := s.provider.FetchDailyHistory(ctx, symbol, contracts.PeriodOneYear)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch daily history")
		return scanFailure(symbol, scanErrorPrefix+err.Error())
	}

	price := series.LastPrice()
	if series.Empty() || len(series.Bars) < scanMinBars {
		log.Info("Not enough history to scan")
		return contracts.ScanResult{
			Symbol:         symbol,
			Price:          price,
			Recommendation: Hold,
			ScoreResult:    contracts.NewScoreResult(0, insufficientReason),
		}
	}

	ind := ComputeScanIndicators(series)
	scored := ScoreScan(ind)

	log.WithFields(map[string]interface{}{
		"price":        ind.Price,
		"adx_14":       ind.ADX14,
		"rsi_14":       ind.RSI14,
		"volume_surge": ind.VolumeSurge,
		"score":        scored.Score,
	}).Debug("Calculated scan score")

	return contracts.ScanResult{
		Symbol:         symbol,
		Price:          ind.Price,
		Recommendation: Recommendation(scored.Score),
		ScoreResult:    scored,
	}
}

func scanFailure(symbol, reason string) contracts.ScanResult {
	return contracts.ScanResult{
		Symbol:         symbol,
		Recommendation: Hold,
		ScoreResult:    contracts.NewScoreResult(0, reason),
	}
}

// ComputeScanIndicators derives the scan inputs from a bar series
func ComputeScanIndicators(series *contracts.PriceSeries) ScanIndicators {
	closes := series.Closes()
	highs := series.Column(func(b contracts.PriceBar) float64 { return b.High })
	lows := series.Column(func(b contracts.PriceBar) float64 { return b.Low })
	volumes := series.Column(func(b contracts.PriceBar) float64 { return b.Volume })

	ind := ScanIndicators{
		Price:       series.LastPrice(),
		EMA50:       indicators.Last(indicators.SMAEMA(closes, emaFastSpan)),
		EMA200:      indicators.Last(indicators.SMAEMA(closes, emaSlowSpan)),
		MACD:        math.NaN(),
		MACDSignal:  math.NaN(),
		PrevMACD:    math.NaN(),
		PrevSignal:  math.NaN(),
		LowerBand:   math.NaN(),
		VolumeSurge: volumeSurge(volumes, volumeWindow),
	}

	ind.ADX14, _ = indicators.ADX(highs, lows, closes, adxPeriod)
	ind.RSI14, _ = indicators.WilderRSI(closes, rsiPeriod)

	// a crossover needs the signal line on both of the last two bars
	if macd := indicators.MACD(closes, macdFast, macdSlow, macdSignal); len(macd) >= 2 {
		cur, prev := macd[len(macd)-1], macd[len(macd)-2]
		if cur.HasSignal() && prev.HasSignal() {
			ind.MACD, ind.MACDSignal = cur.MACD, cur.Signal
			ind.PrevMACD, ind.PrevSignal = prev.MACD, prev.Signal
		}
	}

	if bands, ok := indicators.Bollinger(closes, bollingerPeriod, bollingerWidth); ok {
		ind.LowerBand = bands.Lower
	}

	return ind
}

// volumeSurge is the latest volume over the mean of the last window
// volumes, or NaN when there is no volume to compare against
func volumeSurge(volumes []float64, window int) float64 {
	if len(volumes) < window {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	if sum == 0 {
		return math.NaN()
	}
	return volumes[len(volumes)-1] / (sum / float64(window))
}

// ScoreScan applies the trend, RSI, MACD, band and volume rules.
// Rules whose indicator is NaN are skipped; a zero EMA or RSI counts
// as missing too.
func ScoreScan(ind ScanIndicators) contracts.ScoreResult {
	score := scanBase
	reasons := make([]string, 0, 5)
	add := func(points int, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	if defined(ind.EMA50) && defined(ind.EMA200) {
		switch {
		case ind.Price > ind.EMA50 && ind.EMA50 > ind.EMA200:
			if ind.ADX14 > strongTrendADX {
				add(40, "Strong Secular Uptrend")
			} else {
				add(20, "Healthy Uptrend")
			}
		case ind.Price < ind.EMA50:
			add(-30, "Bearish Trend Configuration")
		}
	}

	if rsi := ind.RSI14; defined(rsi) {
		switch {
		case rsi < 30:
			add(25, "Super Oversold (Value Buy)")
		case rsi > 75:
			add(-20, "Overbought / Exhaustion Zone")
		case rsi > 55 && rsi < 70:
			add(10, "Positive Price Flow")
		}
	}

	if computed(ind.MACD, ind.MACDSignal, ind.PrevMACD, ind.PrevSignal) {
		switch {
		case ind.MACD > ind.MACDSignal && ind.PrevMACD <= ind.PrevSignal:
			add(20, "Bullish MACD Cross")
		case ind.MACD < ind.MACDSignal && ind.PrevMACD >= ind.PrevSignal:
			add(-25, "Bearish Momentum Shift")
		}
	}

	if computed(ind.LowerBand) && ind.Price < ind.LowerBand {
		add(15, "Lower BB Support Bounce")
	}

	if surge := ind.VolumeSurge; computed(surge) {
		switch {
		case surge > 2.0:
			add(15, fmt.Sprintf("Heavy Inst. Buying (%.1fx Vol)", surge))
		case surge > 1.2:
			add(5, "Positive Volume Divergence")
		case surge < 0.4:
			add(-10, "Declining Interest (Low Vol)")
		}
	}

	return contracts.NewScoreResult(score, reasons...)
}

// computed reports whether none of the values is NaN
func computed(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// defined reports whether an indicator was computed and is non-zero
func defined(v float64) bool {
	return computed(v) && v != 0
}
