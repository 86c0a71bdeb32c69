package contracts

import "time"

// Period is a provider lookback range such as "1y"
type Period string

// PeriodOneYear is the lookback used by the technical score
const PeriodOneYear Period = "1y"

// PriceBar represents a single daily OHLCV bar
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronological run of bars for one symbol.
// An empty series means the provider knows no data for the symbol.
// ⭐ SSOT: 시세 데이터 전달 형식
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`

	// MarketPrice is the live quote reported with the chart, if any
	MarketPrice *float64 `json:"market_price,omitempty"`
}

// Empty reports whether the series holds no bars
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// Closes returns the close prices in order
func (s *PriceSeries) Closes() []float64 {
	return s.Column(func(b PriceBar) float64 { return b.Close })
}

// LastPrice returns the live market price when reported, otherwise the
// latest close, otherwise zero
func (s *PriceSeries) LastPrice() float64 {
	if s == nil {
		return 0
	}
	if s.MarketPrice != nil && *s.MarketPrice != 0 {
		return *s.MarketPrice
	}
	if len(s.Bars) > 0 {
		return s.Bars[len(s.Bars)-1].Close
	}
	return 0
}

// Column returns one field of every bar in order
func (s *PriceSeries) Column(field func(PriceBar) float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = field(b)
	}
	return out
}

// FundamentalsSnapshot holds the financial ratios used by the fundamental
// score. A nil field means the provider did not report the metric.
type FundamentalsSnapshot struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regular_market_price,omitempty"`
	ReturnOnEquity     *float64 `json:"return_on_equity,omitempty"` // fraction, 0.2 = 20%
	RevenueGrowth      *float64 `json:"revenue_growth,omitempty"`   // fraction, yoy
	ProfitMargins      *float64 `json:"profit_margins,omitempty"`   // fraction
	DebtToEquity       *float64 `json:"debt_to_equity,omitempty"`   // percent, 40 = 0.4x
}

// HasPrice reports whether the snapshot carries a market price,
// the marker Yahoo uses for a resolvable quote
func (f *FundamentalsSnapshot) HasPrice() bool {
	return f != nil && f.RegularMarketPrice != nil
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
