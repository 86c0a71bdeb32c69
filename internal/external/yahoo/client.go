package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/stockscore/internal/marketdata"
	"github.com/wonny/stockscore/pkg/config"
	"github.com/wonny/stockscore/pkg/httputil"
	"github.com/wonny/stockscore/pkg/logger"
)

var (
	// ErrUnauthorized is returned when Yahoo rejects the cookie/crumb pair
	ErrUnauthorized = errors.New("yahoo: unauthorized")
	// ErrNotFound is returned when Yahoo knows no quote for the symbol
	ErrNotFound = errors.New("yahoo: symbol not found")
)

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.YahooConfig

	mu         sync.RWMutex
	crumb      string
	handshakes singleflight.Group
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// Symbol returns the Yahoo ticker for a user symbol
func (c *Client) Symbol(symbol string) string {
	return marketdata.QualifySymbol(symbol, c.cfg.SymbolSuffix)
}

// getBody fetches url and returns the body of a 2xx response
func (c *Client) getBody(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	status, body, err := c.httpClient.GetBody(ctx, url, headers)
	if err != nil {
		return status, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return status, body, nil
}

// ensureCrumb returns the cached crumb or performs the cookie + crumb
// handshake. Concurrent callers share one handshake, and the cache lock is
// never held across the network calls.
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.RLock()
	crumb := c.crumb
	c.mu.RUnlock()

	if crumb != "" {
		return crumb, nil
	}

	// the shared handshake must not die with whichever caller started it
	ch := c.handshakes.DoChan("crumb", func() (interface{}, error) {
		return c.handshake(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// handshake fetches a fresh crumb and stores it
func (c *Client) handshake(ctx context.Context) (string, error) {
	// fc.yahoo.com answers 404 but sets the session cookie
	if resp, err := c.httpClient.Get(ctx, c.cfg.CookieURL); err == nil {
		resp.Body.Close()
	} else {
		c.logger.WithError(err).Debug("Cookie request failed")
	}

	status, body, err := c.getBody(ctx, c.cfg.BaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", err
	}

	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("%w: crumb request returned status %d", ErrUnauthorized, status)
	}

	c.mu.Lock()
	c.crumb = crumb
	c.mu.Unlock()

	c.logger.Debug("Obtained Yahoo crumb")
	return crumb, nil
}

// resetCrumb forgets the cached crumb so the next call re-handshakes
func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

func isUnauthorized(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
