// Package scrape fetches a web page and extracts its readable parts: the
// title, the main text content, outgoing links, and descriptive metadata.
// Parsing is delegated to goquery; this package only decides which parts of
// the document are worth keeping.
//
// The extracted content is returned in full. Bounding it to the inference
// window is the budgeter's job, applied by the flow that builds the prompt.
package scrape

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

var logger = pkgLogger.NewComponentLogger("scrape")

// Link is an outgoing anchor found on the page.
type Link struct {
	Text string
	URL  string
}

// Meta holds descriptive metadata from the page head.
type Meta struct {
	Description   string
	OGTitle       string
	OGDescription string
}

// Page is the extracted representation of a fetched web page. Immutable
// once captured.
type Page struct {
	URL     string
	Title   string
	Content string
	Links   []Link
	Meta    Meta
}

// Config controls fetching behavior.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxLinks  int
}

// DefaultConfig returns browser-like fetch settings.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		MaxLinks:  20,
	}
}

// Validate rejects non-positive timeouts and link caps.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("scrape: timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxLinks <= 0 {
		return fmt.Errorf("scrape: max_links must be positive, got %d", c.MaxLinks)
	}
	return nil
}

// Scraper fetches pages and extracts their content.
type Scraper struct {
	cfg        Config
	httpClient *http.Client
}

// NewScraper creates a scraper with the given fetch settings.
func NewScraper(cfg Config) *Scraper {
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Scrape fetches the URL and returns the extracted page. A missing scheme
// defaults to https; anything other than http(s) is rejected.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if i := strings.Index(rawURL, "://"); i >= 0 {
		if scheme := strings.ToLower(rawURL[:i]); scheme != "http" && scheme != "https" {
			return nil, fmt.Errorf("invalid URL scheme %q: must be http or https", scheme)
		}
	} else {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	logger.Debug("Fetching page", "url", rawURL)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("unsupported content type %q: only HTML pages can be scraped", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}

	page := ExtractPage(doc, parsed, s.cfg.MaxLinks)
	logger.Debug("Page scraped", "url", rawURL, "title", page.Title, "content_chars", len(page.Content))
	return page, nil
}

// ExtractPage builds a Page from a parsed document.
func ExtractPage(doc *goquery.Document, pageURL *url.URL, maxLinks int) *Page {
	return &Page{
		URL:     pageURL.String(),
		Title:   extractTitle(doc),
		Content: extractContent(doc),
		Links:   extractLinks(doc, pageURL, maxLinks),
		Meta:    extractMeta(doc),
	}
}
