// Package bbref scrapes season shot charts from Basketball-Reference player
// shooting pages.
package bbref

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/shotlog"
)

const (
	BaseURL = "https://www.basketball-reference.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval keeps the scraper under the site's rate limit.
	MinRequestInterval = 3 * time.Second
)

// Client fetches shooting pages through a headless browser
type Client struct {
	baseURL string

	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a scraper client. An empty baseURL uses BaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser allocator
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// ShootingURL is the page holding slug's shot chart for season.
func (c *Client) ShootingURL(slug, season string) (string, error) {
	if len(slug) < 2 {
		return "", fmt.Errorf("invalid player slug %q", slug)
	}
	year, err := SeasonEndYear(season)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/players/%c/%s/shooting/%d", c.baseURL, slug[0], slug, year), nil
}

// FetchShotChart loads and parses a player's season shot chart.
func (c *Client) FetchShotChart(ctx context.Context, slug, season string) ([]shotlog.ShotRecord, error) {
	url, err := c.ShootingURL(slug, season)
	if err != nil {
		return nil, err
	}
	html, err := c.fetchWithRateLimit(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return ParseShotChart(doc)
}

func (c *Client) fetchWithRateLimit(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if wait := c.interval - time.Since(c.lastRequest); wait > 0 {
			log.Debug().Str("component", "bbref").Dur("wait", wait).Msg("rate limiting")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	html, err := c.fetch(ctx, url)
	c.lastRequest = time.Now()
	return html, err
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	// Stop the browser tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`#content`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}
