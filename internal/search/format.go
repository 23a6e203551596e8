package search

import (
	"fmt"
	"strings"
)

// FormatResults renders result records into the numbered text block handed
// to the model as search context.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results to format"
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "Result %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
