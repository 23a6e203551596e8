package scrape

import (
	"fmt"
	"strings"
)

// displayLinks caps how many collected links appear in the formatted
// context block.
const displayLinks = 10

// Format renders the page into the text block handed to the model as
// scrape context.
func (p *Page) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\n", p.URL)
	fmt.Fprintf(&b, "Title: %s\n\n", p.Title)

	if p.Meta.Description != "" || p.Meta.OGTitle != "" || p.Meta.OGDescription != "" {
		b.WriteString("Metadata:\n")
		if p.Meta.Description != "" {
			fmt.Fprintf(&b, "  - description: %s\n", p.Meta.Description)
		}
		if p.Meta.OGTitle != "" {
			fmt.Fprintf(&b, "  - og:title: %s\n", p.Meta.OGTitle)
		}
		if p.Meta.OGDescription != "" {
			fmt.Fprintf(&b, "  - og:description: %s\n", p.Meta.OGDescription)
		}
		b.WriteString("\n")
	}

	if p.Content != "" {
		b.WriteString("Content:\n")
		b.WriteString(p.Content)
		b.WriteString("\n")
	}

	if len(p.Links) > 0 {
		fmt.Fprintf(&b, "\nLinks found (%d):\n", len(p.Links))
		for i, link := range p.Links {
			if i >= displayLinks {
				break
			}
			fmt.Fprintf(&b, "  - %s: %s\n", link.Text, link.URL)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
