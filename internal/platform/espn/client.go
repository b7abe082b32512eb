// Package espn fetches scoreboards from the public ESPN site API.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
)

const (
	// DefaultBaseURL is the ESPN site API root.
	DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports"
	// DefaultUserAgent identifies the poller to ESPN.
	DefaultUserAgent = "Mozilla/5.0 (compatible; livescores/1.0)"
)

// Client handles ESPN API requests.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a Client. timeout bounds every request.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchScoreboard fetches the scoreboard at path, e.g.
// "/basketball/nba/scoreboard". A body without an events array is an error.
func (c *Client) FetchScoreboard(ctx context.Context, path string) (Scoreboard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Scoreboard{}, fmt.Errorf("espn: creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Scoreboard{}, fmt.Errorf("espn: making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Scoreboard{}, fmt.Errorf("espn: fetch %s: %w", path, checkHTTPStatus(resp.StatusCode, body))
	}

	var sb Scoreboard
	if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
		return Scoreboard{}, fmt.Errorf("espn: decoding response: %w", err)
	}
	if sb.Events == nil {
		return Scoreboard{}, fmt.Errorf("espn: %w: response has no events array", domain.ErrUpstream)
	}

	return sb, nil
}

// checkHTTPStatus maps a non-200 status code to a domain error.
func checkHTTPStatus(statusCode int, body []byte) error {
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
