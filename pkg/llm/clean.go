package llm

import (
	"regexp"
	"strings"
)

var (
	// specialTokenRe matches chat-template control tokens such as <|end|>,
	// <|start|>, <|channel|> that some models leak into completions.
	specialTokenRe = regexp.MustCompile(`<\|[^|]+\|>`)

	// excessNewlinesRe collapses runs of three or more newlines.
	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// reasoningPreambles match chain-of-thought lead-ins that gpt-oss sometimes
// leaks ahead of the actual answer. Everything from the line start through
// the preamble is dropped up to the next capitalized line or heading; the
// delimiter is captured and kept since the regexp engine has no lookahead.
var reasoningPreambles = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?ms)^.*?We have a conversation:.*?(\n[A-Z]|\n#)`), "$1"},
	{regexp.MustCompile(`(?ms)^.*?The answer should.*?(\n[A-Z]|\n#)`), "$1"},
	{regexp.MustCompile(`(?ms)^.*?We need to.*?(\n[A-Z]|\n#)`), "$1"},
	{regexp.MustCompile(`(?ms)^.*?We should.*?(\n[A-Z]|\n#)`), "$1"},
	{regexp.MustCompile(`(?ms)^.*?We'll comply\..*?\n`), ""},
	{regexp.MustCompile(`(?m)^\.\.\.\?\s*\n`), ""},
}

// CleanResponse strips leaked special tokens and reasoning preambles from
// raw model output and normalizes whitespace. Applied before a reply is
// stored in history or shown as the final answer.
func CleanResponse(text string) string {
	if text == "" {
		return text
	}
	text = specialTokenRe.ReplaceAllString(text, "")
	for _, p := range reasoningPreambles {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
