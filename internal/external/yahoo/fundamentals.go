package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wonny/stockscore/internal/contracts"
)

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"price"`
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				RevenueGrowth  rawValue `json:"revenueGrowth"`
				ProfitMargins  rawValue `json:"profitMargins"`
				DebtToEquity   rawValue `json:"debtToEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {"raw": 0.21, "fmt": "21.00%"} wrapper; missing
// metrics come back as {}
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// FetchFundamentals fetches the ratios used by the fundamental score.
// A symbol Yahoo does not know yields (nil, nil). When the quoteSummary
// endpoint rejects the crumb, the key-statistics page is scraped instead.
// ⭐ SSOT: Yahoo 재무 데이터 호출은 이 함수에서만
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*contracts.FundamentalsSnapshot, error) {
	ticker := c.Symbol(symbol)

	snapshot, err := c.fetchQuoteSummary(ctx, ticker)
	if errors.Is(err, ErrUnauthorized) {
		c.logger.WithError(err).WithField("symbol", ticker).Warn("quoteSummary rejected, falling back to key statistics page")
		snapshot, err = c.FetchKeyStatistics(ctx, ticker)
	}

	if errors.Is(err, ErrNotFound) {
		c.logger.WithField("symbol", ticker).Debug("No fundamentals for symbol")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (c *Client) fetchQuoteSummary(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("modules", "price,financialData")
	params.Set("crumb", crumb)
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.cfg.BaseURL, url.PathEscape(ticker), params.Encode())

	status, body, err := c.getBody(ctx, fullURL, nil)
	if err != nil {
		return nil, err
	}

	if isUnauthorized(status) {
		c.resetCrumb()
		return nil, fmt.Errorf("%w: quoteSummary returned status %d", ErrUnauthorized, status)
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("quoteSummary request returned status %d", status)
		}
		return nil, fmt.Errorf("decode quoteSummary response: %w", err)
	}

	if parsed.QuoteSummary.Error.notFound() || status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error %s: %s", parsed.QuoteSummary.Error.Code, parsed.QuoteSummary.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("quoteSummary request returned status %d", status)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, ErrNotFound
	}

	r := parsed.QuoteSummary.Result[0]
	return &contracts.FundamentalsSnapshot{
		Symbol:             ticker,
		RegularMarketPrice: r.Price.RegularMarketPrice.Raw,
		ReturnOnEquity:     r.FinancialData.ReturnOnEquity.Raw,
		RevenueGrowth:      r.FinancialData.RevenueGrowth.Raw,
		ProfitMargins:      r.FinancialData.ProfitMargins.Raw,
		DebtToEquity:       r.FinancialData.DebtToEquity.Raw,
	}, nil
}
