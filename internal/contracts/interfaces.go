package contracts

import "context"

// MarketDataProvider fetches raw market data for a symbol.
// Symbols are bare tickers; providers apply their own market qualifier.
// ⭐ SSOT: 외부 시세 데이터 인터페이스
type MarketDataProvider interface {
	// FetchDailyHistory returns daily bars for the period. An unknown
	// symbol yields an empty series, not an error.
	FetchDailyHistory(ctx context.Context, symbol string, period Period) (*PriceSeries, error)

	// FetchFundamentals returns the ratio snapshot, or nil when the
	// provider has no quote for the symbol.
	FetchFundamentals(ctx context.Context, symbol string) (*FundamentalsSnapshot, error)
}

// Scorer produces a score for a symbol. Implementations never fail:
// every error path ends in a zero-score result with an explanation.
type Scorer interface {
	Score(ctx context.Context, symbol string) ScoreResult
}

// Scanner runs the composite scan for a symbol. Like Scorer it never
// fails; errors become a zero-score HOLD result.
type Scanner interface {
	Scan(ctx context.Context, symbol string) ScanResult
}
