package scoring

import (
	"context"
	"errors"

	"github.com/wonny/stockscore/internal/contracts"
)

// fakeProvider returns canned market data
type fakeProvider struct {
	series       *contracts.PriceSeries
	seriesErr    error
	fundamentals *contracts.FundamentalsSnapshot
	fundErr      error
	panicMsg     string

	historyCalls []string
}

func (f *fakeProvider) FetchDailyHistory(_ context.Context, symbol string, period contracts.Period) (*contracts.PriceSeries, error) {
	f.historyCalls = append(f.historyCalls, symbol+"/"+string(period))
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.series, f.seriesErr
}

func (f *fakeProvider) FetchFundamentals(_ context.Context, _ string) (*contracts.FundamentalsSnapshot, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.fundamentals, f.fundErr
}

var errUpstream = errors.New("yahoo: status 503")

func seriesOf(closes []float64) *contracts.PriceSeries {
	bars := make([]contracts.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{Open: c, High: c, Low: c, Close: c}
	}
	return &contracts.PriceSeries{Symbol: "TEST", Bars: bars}
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
