package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/canerkonuk/GptOss20BAgent/internal/budget"
	"github.com/canerkonuk/GptOss20BAgent/internal/config"
	"github.com/canerkonuk/GptOss20BAgent/internal/scrape"
	"github.com/canerkonuk/GptOss20BAgent/internal/search"
	"github.com/canerkonuk/GptOss20BAgent/pkg/history"
	"github.com/canerkonuk/GptOss20BAgent/pkg/llm"
)

// fakeGenerator records the prompts it receives and replies with a fixed
// text.
type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
	usage   llm.TokenUsage
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, onChunk func(string)) (llm.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return llm.Result{}, f.err
	}
	if onChunk != nil {
		onChunk(f.reply)
	}
	return llm.Result{Text: f.reply, Usage: f.usage}, nil
}

func (f *fakeGenerator) ModelID() string    { return "fake:latest" }
func (f *fakeGenerator) ContextWindow() int { return 2048 }
func (f *fakeGenerator) LastTokenUsage() (llm.TokenUsage, bool) {
	return f.usage, f.usage.TotalTokens > 0
}

type fakeSearcher struct {
	results []search.Result
	err     error
	query   string
	max     int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.query = query
	f.max = maxResults
	return f.results, f.err
}

type fakeScraper struct {
	page *scrape.Page
	err  error
	url  string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*scrape.Page, error) {
	f.url = url
	return f.page, f.err
}

func newTestAgent(gen *fakeGenerator, searcher *fakeSearcher, scraper *fakeScraper) *Agent {
	if gen == nil {
		gen = &fakeGenerator{reply: "ok"}
	}
	if searcher == nil {
		searcher = &fakeSearcher{}
	}
	if scraper == nil {
		scraper = &fakeScraper{}
	}
	return NewAgent(gen, searcher, scraper, budget.DefaultConfig(), config.DefaultPrompts(), history.New())
}

func TestConverse_RecordsBothTurns(t *testing.T) {
	gen := &fakeGenerator{reply: "Hello back.<|end|>"}
	a := newTestAgent(gen, nil, nil)

	reply, err := a.Converse(context.Background(), "Hello", nil)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply != "Hello back." {
		t.Errorf("reply not cleaned: %q", reply)
	}

	turns := a.History().Turns()
	if len(turns) != 2 {
		t.Fatalf("want 2 turns, got %d", len(turns))
	}
	if turns[0].Role != history.RoleUser || turns[0].Content != "Hello" {
		t.Errorf("user turn: %+v", turns[0])
	}
	if turns[1].Role != history.RoleAssistant || turns[1].Content != "Hello back." {
		t.Errorf("assistant turn: %+v", turns[1])
	}
}

func TestConverse_EmptyInput(t *testing.T) {
	a := newTestAgent(nil, nil, nil)
	if _, err := a.Converse(context.Background(), "   ", nil); err == nil {
		t.Fatal("blank input accepted")
	}
	if a.History().Len() != 0 {
		t.Error("failed turn recorded in history")
	}
}

func TestConverse_GeneratorErrorKeepsUserTurn(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("backend down")}
	a := newTestAgent(gen, nil, nil)

	if _, err := a.Converse(context.Background(), "Hello", nil); err == nil {
		t.Fatal("generator error swallowed")
	}
	// The user turn was committed before the call; no assistant turn follows.
	turns := a.History().Turns()
	if len(turns) != 1 || turns[0].Role != history.RoleUser {
		t.Errorf("history after failure: %+v", turns)
	}
}

func TestBuildPrompt_BoundsHistoryWindow(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := newTestAgent(gen, nil, nil)

	// 10 stored turns with a window of 6: turns 1-4 must not appear.
	for i := 1; i <= 5; i++ {
		a.History().Add(history.RoleUser, fmt.Sprintf("question %d", i))
		a.History().Add(history.RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	if _, err := a.Converse(context.Background(), "latest", nil); err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	prompt := gen.prompts[0]
	for _, absent := range []string{"question 1", "answer 1", "question 2", "answer 2"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt contains turn outside the window: %q", absent)
		}
	}
	for _, present := range []string{"question 3", "answer 5", "User: latest"} {
		if !strings.Contains(prompt, present) {
			t.Errorf("prompt missing %q", present)
		}
	}
	if !strings.HasSuffix(prompt, "Assistant:") {
		t.Errorf("prompt does not end awaiting the assistant: %q", prompt[len(prompt)-40:])
	}
	if !strings.HasPrefix(prompt, config.DefaultPrompts().Conversation) {
		t.Error("prompt does not start with the system prompt")
	}
}

func TestSearch_Flow(t *testing.T) {
	gen := &fakeGenerator{reply: "summary of results"}
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "One", URL: "https://a.example", Description: "first"},
		{Title: "Two", URL: "https://b.example", Description: "second"},
	}}
	a := newTestAgent(gen, searcher, nil)

	reply, err := a.Search(context.Background(), "golang", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if reply != "summary of results" {
		t.Errorf("reply: %q", reply)
	}
	if searcher.query != "golang" {
		t.Errorf("provider query: %q", searcher.query)
	}
	if searcher.max != budget.DefaultMaxSearchResults {
		t.Errorf("provider cap: %d", searcher.max)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		config.DefaultPrompts().Search,
		"Search Query: golang",
		"Result 1:",
		"Title: One",
		"Result 2:",
		`analyze these search results for the query: "golang"`,
		"Context:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("search prompt missing %q", want)
		}
	}
}

func TestSearch_ProviderError(t *testing.T) {
	searcher := &fakeSearcher{err: fmt.Errorf("network down")}
	a := newTestAgent(nil, searcher, nil)

	if _, err := a.Search(context.Background(), "golang", nil); err == nil {
		t.Fatal("provider error swallowed")
	}
	if a.History().Len() != 0 {
		t.Error("failed search recorded in history")
	}
}

func TestSearch_LargeResultsBounded(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	long := strings.Repeat("x", 800)
	var results []search.Result
	for i := 0; i < 10; i++ {
		results = append(results, search.Result{Title: fmt.Sprintf("R%d", i), URL: "https://x.example", Description: long})
	}
	a := newTestAgent(gen, &fakeSearcher{results: results}, nil)

	if _, err := a.Search(context.Background(), "big", nil); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	cfg := budget.DefaultConfig()
	marker := budget.TruncationMarker(cfg.HeadChars, cfg.TailChars)
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, marker) {
		t.Error("oversized results block was not truncated")
	}
}

func TestScrape_Flow(t *testing.T) {
	gen := &fakeGenerator{reply: "page summary"}
	scraper := &fakeScraper{page: &scrape.Page{
		URL:     "https://site.example/page",
		Title:   "Example Page",
		Content: "page body text",
	}}
	a := newTestAgent(gen, nil, scraper)

	reply, err := a.Scrape(context.Background(), "https://site.example/page", "What is this about?", nil)
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if reply != "page summary" {
		t.Errorf("reply: %q", reply)
	}
	if scraper.url != "https://site.example/page" {
		t.Errorf("fetched URL: %q", scraper.url)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		config.DefaultPrompts().Scrape,
		"What is this about?",
		"Title: Example Page",
		"page body text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("scrape prompt missing %q", want)
		}
	}
}

func TestScrape_DefaultQuestion(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	scraper := &fakeScraper{page: &scrape.Page{URL: "https://x.example", Title: "T", Content: "c"}}
	a := newTestAgent(gen, nil, scraper)

	if _, err := a.Scrape(context.Background(), "https://x.example", "  ", nil); err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if !strings.Contains(gen.prompts[0], DefaultScrapeQuestion) {
		t.Error("blank question did not fall back to the default")
	}
}

func TestScrape_Errors(t *testing.T) {
	a := newTestAgent(nil, nil, &fakeScraper{err: fmt.Errorf("fetch failed")})

	if _, err := a.Scrape(context.Background(), "", "q", nil); err == nil {
		t.Error("empty URL accepted")
	}
	if _, err := a.Scrape(context.Background(), "https://x.example", "q", nil); err == nil {
		t.Error("scraper error swallowed")
	}
	if a.History().Len() != 0 {
		t.Error("failed scrape recorded in history")
	}
}

func TestSetMode(t *testing.T) {
	a := newTestAgent(nil, nil, nil)

	if a.Mode() != config.ModeConversation {
		t.Errorf("initial mode: %q", a.Mode())
	}
	if err := a.SetMode(config.ModeSearch); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if a.Mode() != config.ModeSearch {
		t.Errorf("mode after switch: %q", a.Mode())
	}
	if err := a.SetMode(config.Mode("bogus")); err == nil {
		t.Fatal("unknown mode accepted")
	}
	if a.Mode() != config.ModeSearch {
		t.Error("failed switch changed the mode")
	}
}

func TestStatusLine(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := newTestAgent(gen, nil, nil)

	line := StatusLine(a)
	if !strings.Contains(line, "[conversation] turns: 0") {
		t.Errorf("initial status line: %q", line)
	}

	gen.usage = llm.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}
	if _, err := a.Converse(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	line = StatusLine(a)
	if !strings.Contains(line, "turns: 2") {
		t.Errorf("status line after turn: %q", line)
	}
	if !strings.Contains(line, "100 in / 50 out") {
		t.Errorf("status line missing usage: %q", line)
	}
	if strings.Contains(line, "near context limit") {
		t.Errorf("low usage flagged as near limit: %q", line)
	}

	gen.usage = llm.TokenUsage{InputTokens: 1600, OutputTokens: 200, TotalTokens: 1800}
	line = StatusLine(a)
	if !strings.Contains(line, "near context limit (2048)") {
		t.Errorf("high usage not flagged: %q", line)
	}
}
