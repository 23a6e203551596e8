// Package search queries the DuckDuckGo HTML endpoint and returns result
// records in provider order. No API key is required and no re-ranking is
// done; result quality is entirely the provider's.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	pkgLogger "github.com/canerkonuk/GptOss20BAgent/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("search")

const endpoint = "https://html.duckduckgo.com/html/"

// Result is one search result record as supplied by the provider.
type Result struct {
	Title       string
	URL         string
	Description string
}

// Config controls provider parameters for a search client.
type Config struct {
	Region     string        // DuckDuckGo region code, e.g. "wt-wt" for worldwide
	SafeSearch string        // "strict", "moderate", or "off"
	Timeout    time.Duration // per-request timeout
	UserAgent  string
}

// DefaultConfig returns worldwide, moderate-safesearch defaults.
func DefaultConfig() Config {
	return Config{
		Region:     "wt-wt",
		SafeSearch: "moderate",
		Timeout:    10 * time.Second,
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// Validate rejects unknown safesearch levels and non-positive timeouts.
func (c Config) Validate() error {
	if _, ok := safeSearchParam(c.SafeSearch); !ok {
		return fmt.Errorf("search: unknown safesearch level %q (want strict, moderate, or off)", c.SafeSearch)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("search: timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// safeSearchParam maps a safesearch level to DuckDuckGo's kp parameter.
func safeSearchParam(level string) (string, bool) {
	switch level {
	case "strict":
		return "1", true
	case "moderate", "":
		return "-1", true
	case "off":
		return "-2", true
	default:
		return "", false
	}
}

// Client performs web searches against the DuckDuckGo HTML endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	endpoint   string // overridable in tests
}

// NewClient creates a search client with the given provider parameters.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   endpoint,
	}
}

// Search runs a query and returns up to maxResults records in provider
// order. An empty query or an empty result set is an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	kp, _ := safeSearchParam(c.cfg.SafeSearch)
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", c.cfg.Region)
	params.Set("kp", kp)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create search request")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	logger.Debug("Searching", "query", query, "region", c.cfg.Region)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse search response")
	}

	results := ParseResults(doc, maxResults)
	if len(results) == 0 {
		return nil, fmt.Errorf("no results found for %q", query)
	}

	logger.Debug("Search finished", "query", query, "results", len(results))
	return results, nil
}

// ParseResults extracts result records from a DuckDuckGo HTML results page.
// Records keep the page's order. maxResults <= 0 means no cap.
func ParseResults(doc *goquery.Document, maxResults int) []Result {
	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}
		desc := strings.TrimSpace(s.Find(".result__snippet").First().Text())

		results = append(results, Result{
			Title:       title,
			URL:         resolveRedirect(href),
			Description: desc,
		})
		return maxResults <= 0 || len(results) < maxResults
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=... redirect links to the
// target URL. Unrecognized hrefs are returned as-is.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
