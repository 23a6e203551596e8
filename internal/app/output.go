package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/canerkonuk/GptOss20BAgent/internal/budget"
)

// separatorWidth bounds the banner rule when the terminal width is
// unknown or very wide.
const separatorWidth = 60

// WriteBanner writes the startup banner. The decorative rule is skipped
// when stdout is not a terminal (piped output stays clean).
func WriteBanner(w io.Writer, model string, contextWindow int) {
	if w == nil {
		return
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := separatorWidth
	if isTTY {
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && tw < width {
			width = tw
		}
		fmt.Fprintln(w, strings.Repeat("=", width))
	}

	fmt.Fprintln(w, "gptoss-agent - local AI assistant")
	fmt.Fprintf(w, "Model: %s (context window: %d tokens)\n", model, contextWindow)
	fmt.Fprintln(w, "Modes: conversation | search | scrape - switch with /mode")
	fmt.Fprintln(w, "Commands start with '/'; everything else goes to the model.")

	if isTTY {
		fmt.Fprintln(w, strings.Repeat("=", width))
	}
}

// StatusLine renders the per-prompt status shown above the input line.
func StatusLine(a *Agent) string {
	line := fmt.Sprintf("[%s] turns: %d", a.Mode(), a.History().Len())

	if usage, ok := a.LastTokenUsage(); ok {
		line += fmt.Sprintf(" | last call: %d in / %d out tokens", usage.InputTokens, usage.OutputTokens)

		window := a.ContextWindow()
		if budget.CheckContext(usage.InputTokens, usage.OutputTokens, window) == budget.ContextNearLimit {
			line += fmt.Sprintf(" | near context limit (%d)", window)
		}
	}
	return line
}
