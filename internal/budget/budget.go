// Package budget bounds text inputs so an assembled prompt fits inside a
// fixed-size inference window. Conversation history uses a fixed recent
// window; oversized single documents keep a head and a tail with the middle
// dropped, because article-shaped prose carries most of its information in
// the framing and the conclusion.
//
// All operations are pure, synchronous transformations with no failure
// modes of their own; config misuse is caught once at startup by Validate.
package budget

import (
	"fmt"
	"unicode/utf8"

	"github.com/canerkonuk/GptOss20BAgent/internal/search"
	"github.com/canerkonuk/GptOss20BAgent/pkg/history"
)

// Defaults tuned for a 2048-token context window: system prompt plus the
// current question plus the history window plus 512 output tokens leaves
// roughly 1,250 tokens (~5,000 chars) for search or scrape context.
const (
	DefaultMaxHistoryTurns  = 6
	DefaultMaxDocumentChars = 5000
	DefaultHeadChars        = 3000
	DefaultTailChars        = 2000
	DefaultMaxSearchResults = 10

	// ApproxCharsPerResult is a planning figure for upstream result size,
	// not an enforced cut: 10 results x ~300 chars is ~750 tokens.
	ApproxCharsPerResult = 300
)

// Config carries the bounding limits. All fields have documented defaults;
// Validate must pass before the config is used.
type Config struct {
	MaxHistoryTurns  int `json:"max_history_turns"`
	MaxDocumentChars int `json:"max_document_chars"`
	HeadChars        int `json:"head_chars"`
	TailChars        int `json:"tail_chars"`
	MaxSearchResults int `json:"max_search_results"`
}

// DefaultConfig returns the bounding limits sized for a 2048-token window.
func DefaultConfig() Config {
	return Config{
		MaxHistoryTurns:  DefaultMaxHistoryTurns,
		MaxDocumentChars: DefaultMaxDocumentChars,
		HeadChars:        DefaultHeadChars,
		TailChars:        DefaultTailChars,
		MaxSearchResults: DefaultMaxSearchResults,
	}
}

// Validate rejects malformed limits with a descriptive error. BoundDocument
// applies its slicing literally, so the head+tail sum is checked here once
// rather than silently adjusted at every call.
func (c Config) Validate() error {
	if c.MaxHistoryTurns <= 0 {
		return fmt.Errorf("budget: max_history_turns must be positive, got %d", c.MaxHistoryTurns)
	}
	if c.MaxDocumentChars <= 0 {
		return fmt.Errorf("budget: max_document_chars must be positive, got %d", c.MaxDocumentChars)
	}
	if c.HeadChars <= 0 {
		return fmt.Errorf("budget: head_chars must be positive, got %d", c.HeadChars)
	}
	if c.TailChars <= 0 {
		return fmt.Errorf("budget: tail_chars must be positive, got %d", c.TailChars)
	}
	if c.HeadChars+c.TailChars > c.MaxDocumentChars {
		return fmt.Errorf("budget: head_chars+tail_chars (%d) exceeds max_document_chars (%d)",
			c.HeadChars+c.TailChars, c.MaxDocumentChars)
	}
	if c.MaxSearchResults <= 0 {
		return fmt.Errorf("budget: max_search_results must be positive, got %d", c.MaxSearchResults)
	}
	return nil
}

// BoundHistory retains only the most recent maxEntries turns, preserving
// order among the retained turns. Empty input yields empty output.
func BoundHistory(turns []history.Turn, maxEntries int) []history.Turn {
	if maxEntries <= 0 {
		return turns[:0]
	}
	if len(turns) <= maxEntries {
		return turns
	}
	return turns[len(turns)-maxEntries:]
}

// TruncationMarker is the human-readable separator inserted between the
// retained head and tail of a truncated document.
func TruncationMarker(head, tail int) string {
	return fmt.Sprintf("\n\n... [content truncated: showing first %d and last %d chars] ...\n\n", head, tail)
}

// BoundDocument returns text unchanged when it fits within maxLength.
// Otherwise it keeps the first head bytes and the last tail bytes with a
// truncation marker in between, so the result never exceeds
// head + tail + marker length regardless of input size. Cut points shrink
// to the nearest rune boundary so neither excerpt ends in invalid UTF-8.
//
// Slicing is literal: when head+tail is not below maxLength the head and
// tail may overlap for inputs only slightly over the threshold. Keeping the
// limits sane is the producer's job (Config.Validate).
func BoundDocument(text string, maxLength, head, tail int) string {
	if len(text) <= maxLength {
		return text
	}
	if head > len(text) {
		head = len(text)
	}
	if tail > len(text) {
		tail = len(text)
	}
	headCut := head
	for headCut > 0 && headCut < len(text) && !utf8.RuneStart(text[headCut]) {
		headCut--
	}
	tailCut := len(text) - tail
	for tailCut < len(text) && !utf8.RuneStart(text[tailCut]) {
		tailCut++
	}
	return text[:headCut] + TruncationMarker(head, tail) + text[tailCut:]
}

// BoundSearchResults takes the first maxResults records in provider order.
// No re-ranking, no per-record truncation.
func BoundSearchResults(results []search.Result, maxResults int) []search.Result {
	if maxResults <= 0 {
		return results[:0]
	}
	if len(results) <= maxResults {
		return results
	}
	return results[:maxResults]
}
