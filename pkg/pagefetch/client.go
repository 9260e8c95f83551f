// Package pagefetch fetches recipe web pages and surfaces the pieces the
// extraction layers consume: raw HTML, the page title and description, and
// any embedded JSON-LD blocks. The extraction core treats this package as a
// black box returning {html, structuredData?}.
package pagefetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Page is a fetched web page.
type Page struct {
	URL         string
	Title       string
	Description string
	HTML        string
	// StructuredData holds the raw bodies of every
	// <script type="application/ld+json"> block, in document order.
	StructuredData []string
}

// Client defines the fetch collaborator.
type Client interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent overrides the request User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

type httpClient struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	maxBody   int64
}

// NewClient creates a page fetch client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		http:      &http.Client{Timeout: 20 * time.Second},
		userAgent: "ChefStacksBot/1.0",
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		maxBody:   5 << 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "pagefetch: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "pagefetch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "pagefetch: fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("pagefetch: HTTP %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, eris.Wrap(err, "pagefetch: read body")
	}

	html := string(body)
	return &Page{
		URL:            pageURL,
		Title:          extractTitle(html),
		Description:    extractMetaDescription(html),
		HTML:           html,
		StructuredData: extractJSONLD(html),
	}, nil
}
