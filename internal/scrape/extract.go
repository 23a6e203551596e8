package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipTags never contribute readable content and are dropped wholesale.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"nav": true, "header": true, "footer": true,
}

// blockTags separate their text from surrounding content with a newline.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "table": true, "tr": true,
	"blockquote": true, "pre": true, "br": true,
}

// contentSelectors are tried in order to find the main content area before
// falling back to the whole body.
var contentSelectors = []string{"main", "article", "div.content"}

// extractTitle returns the page title, falling back to the first h1.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return "No title found"
}

// extractContent returns the main text of the page with one line per block
// and skip-listed elements removed.
func extractContent(doc *goquery.Document) string {
	var root *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			root = s
			break
		}
	}
	if root == nil {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	for _, node := range root.Nodes {
		writeNodeText(node, &b)
	}
	return cleanLines(b.String())
}

// writeNodeText walks a DOM subtree, emitting text nodes and newlines
// around block-level elements.
func writeNodeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, b)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteString("\n")
	}
}

// cleanLines trims every line and drops empty ones.
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}

// extractLinks collects absolute http(s) anchors with visible text, capped
// at maxLinks. Relative hrefs are resolved against the page URL.
func extractLinks(doc *goquery.Document, base *url.URL, maxLinks int) []Link {
	var links []Link
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		target := resolved.String()
		if seen[target] {
			return true
		}
		seen[target] = true

		links = append(links, Link{Text: text, URL: target})
		return len(links) < maxLinks
	})
	return links
}

// extractMeta pulls descriptive metadata from the page head.
func extractMeta(doc *goquery.Document) Meta {
	return Meta{
		Description:   strings.TrimSpace(doc.Find("meta[name='description']").AttrOr("content", "")),
		OGTitle:       strings.TrimSpace(doc.Find("meta[property='og:title']").AttrOr("content", "")),
		OGDescription: strings.TrimSpace(doc.Find("meta[property='og:description']").AttrOr("content", "")),
	}
}
