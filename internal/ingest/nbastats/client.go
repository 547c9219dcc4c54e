// Package nbastats is a client for the NBA stats API result-set endpoints.
package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	BaseURL = "https://stats.nba.com/stats"

	// LeagueNBA is the provider's league identifier.
	LeagueNBA = "00"

	SeasonTypeRegular  = "Regular Season"
	SeasonTypePlayoffs = "Playoffs"
)

// Client handles NBA stats API requests
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New creates a new stats API client. An empty baseURL uses BaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// fetch makes a GET request to endpoint and returns the raw body
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// The stats API rejects requests without browser-like headers.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API error: endpoint=%s status=%d body=%s", endpoint, resp.StatusCode, truncate(body, 200))
	}

	log.Debug().Str("component", "nbastats").Str("endpoint", endpoint).
		Dur("took", time.Since(start)).Int("bytes", len(body)).Msg("fetched")
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
