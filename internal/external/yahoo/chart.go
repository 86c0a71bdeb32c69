package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/stockscore/internal/contracts"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		ChartPreviousClose *float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) notFound() bool {
	return e != nil && e.Code == "Not Found"
}

// FetchDailyHistory fetches daily OHLCV bars for the symbol.
// An unknown symbol yields an empty series, not an error.
// ⭐ SSOT: Yahoo 일봉 호출은 이 함수에서만
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, period contracts.Period) (*contracts.PriceSeries, error) {
	ticker := c.Symbol(symbol)

	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", string(period))
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(ticker), params.Encode())

	status, body, err := c.getBody(ctx, fullURL, nil)
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("chart request returned status %d", status)
		}
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	if parsed.Chart.Error.notFound() || status == http.StatusNotFound {
		c.logger.WithField("symbol", ticker).Debug("Chart has no data for symbol")
		return &contracts.PriceSeries{Symbol: ticker}, nil
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart error %s: %s", parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("chart request returned status %d", status)
	}

	series := &contracts.PriceSeries{Symbol: ticker}
	if len(parsed.Chart.Result) > 0 {
		series.Bars = parseBars(parsed.Chart.Result[0])
		series.MarketPrice = marketPrice(parsed.Chart.Result[0])
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": ticker,
		"count":  len(series.Bars),
	}).Debug("Fetched daily history")
	return series, nil
}

// parseBars zips the column arrays into bars, dropping rows without a
// close (holidays and halted sessions come back as nulls)
func parseBars(r chartResult) []contracts.PriceBar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePrice := at(q.Close, i)
		if closePrice == nil {
			continue
		}

		bar := contracts.PriceBar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *closePrice,
		}
		bar.Open = valueOr(at(q.Open, i), bar.Close)
		bar.High = valueOr(at(q.High, i), bar.Close)
		bar.Low = valueOr(at(q.Low, i), bar.Close)
		bar.Volume = valueOr(at(q.Volume, i), 0)

		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
	return bars
}

// marketPrice prefers the live quote and falls back to the previous close
func marketPrice(r chartResult) *float64 {
	for _, p := range []*float64{r.Meta.RegularMarketPrice, r.Meta.ChartPreviousClose} {
		if p != nil && *p != 0 {
			return p
		}
	}
	return nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
