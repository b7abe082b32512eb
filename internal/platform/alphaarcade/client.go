// Package alphaarcade is the REST client for the Alpha Arcade prediction
// market API.
package alphaarcade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// DefaultMarketsURL is the public get-markets endpoint.
const DefaultMarketsURL = "https://g08245wvl7.execute-api.us-east-1.amazonaws.com/api/get-markets"

// Client fetches market listings from Alpha Arcade.
type Client struct {
	marketsURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given get-markets URL. timeout bounds
// every request.
func NewClient(marketsURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		marketsURL: marketsURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "alphaarcade")),
	}
}

// GetMarkets returns the currently active markets. Entries that cannot be
// decoded are dropped and logged; a response without a markets array is an
// error.
func (c *Client) GetMarkets(ctx context.Context) ([]domain.Market, error) {
	u, err := url.Parse(c.marketsURL)
	if err != nil {
		return nil, fmt.Errorf("alphaarcade: parse markets url: %w", err)
	}
	q := u.Query()
	q.Set("activeOnly", "true")
	u.RawQuery = q.Encode()

	body, err := c.doGet(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("alphaarcade: get markets: %w", err)
	}

	var env marketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("alphaarcade: decode markets: %w", err)
	}
	if env.Markets == nil {
		return nil, fmt.Errorf("alphaarcade: decode markets: %w: response has no markets array", domain.ErrUpstream)
	}

	markets := make([]domain.Market, 0, len(env.Markets))
	for i, raw := range env.Markets {
		var apiMarket APIMarket
		if err := json.Unmarshal(raw, &apiMarket); err != nil {
			c.logger.WarnContext(ctx, "dropping undecodable market",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		m, err := apiMarket.ToDomainMarket()
		if err != nil {
			c.logger.WarnContext(ctx, "dropping invalid market",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		markets = append(markets, m)
	}

	return markets, nil
}

func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	if len(bodyStr) > 512 {
		bodyStr = bodyStr[:512]
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstream, statusCode, bodyStr)
	}
}
