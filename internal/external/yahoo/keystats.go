package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/stockscore/internal/contracts"
)

// key-statistics row labels; the page suffixes them with (ttm) / (mrq)
const (
	labelReturnOnEquity = "Return on Equity"
	labelRevenueGrowth  = "Quarterly Revenue Growth"
	labelProfitMargin   = "Profit Margin"
	labelDebtToEquity   = "Total Debt/Equity"
)

// FetchKeyStatistics scrapes the quote's key-statistics page
func (c *Client) FetchKeyStatistics(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	fullURL := fmt.Sprintf("%s/quote/%s/key-statistics", c.cfg.StatsURL, url.PathEscape(ticker))

	status, body, err := c.getBody(ctx, fullURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("key statistics request returned status %d", status)
	}

	snapshot, err := parseKeyStatistics(body)
	if err != nil {
		return nil, err
	}
	if !snapshot.HasPrice() {
		return nil, ErrNotFound
	}

	snapshot.Symbol = ticker
	return snapshot, nil
}

// parseKeyStatistics extracts price and ratios from a key-statistics page
func parseKeyStatistics(html []byte) (*contracts.FundamentalsSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse key statistics page: %w", err)
	}

	snapshot := &contracts.FundamentalsSnapshot{}

	price := doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()
	if v, ok := price.Attr("data-value"); ok {
		snapshot.RegularMarketPrice = parseNumber(v)
	}
	if snapshot.RegularMarketPrice == nil {
		snapshot.RegularMarketPrice = parseNumber(price.Text())
	}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch {
		case strings.HasPrefix(label, labelReturnOnEquity):
			snapshot.ReturnOnEquity = parsePercent(value, true)
		case strings.HasPrefix(label, labelRevenueGrowth):
			snapshot.RevenueGrowth = parsePercent(value, true)
		case strings.HasPrefix(label, labelProfitMargin):
			snapshot.ProfitMargins = parsePercent(value, true)
		case strings.HasPrefix(label, labelDebtToEquity):
			snapshot.DebtToEquity = parsePercent(value, false)
		}
	})

	return snapshot, nil
}

// parsePercent parses "21.34%" as 0.2134 (asFraction) or 21.34.
// Placeholders such as "--" and "N/A" yield nil.
func parsePercent(s string, asFraction bool) *float64 {
	v := parseNumber(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if v == nil || !asFraction {
		return v
	}
	return contracts.Float(*v / 100)
}

func parseNumber(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "--" || s == "N/A" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
