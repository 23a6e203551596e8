// Package app wires the collaborators into the three interactive flows:
// conversation, web search, and page scraping. Each flow assembles one
// prompt from the mode's system prompt, the bounded history window, and an
// optional bounded context block, then makes one synchronous inference
// call.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/canerkonuk/GptOss20BAgent/internal/budget"
	"github.com/canerkonuk/GptOss20BAgent/internal/config"
	"github.com/canerkonuk/GptOss20BAgent/internal/scrape"
	"github.com/canerkonuk/GptOss20BAgent/internal/search"
	"github.com/canerkonuk/GptOss20BAgent/pkg/history"
	"github.com/canerkonuk/GptOss20BAgent/pkg/llm"
	pkgLogger "github.com/canerkonuk/GptOss20BAgent/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("agent")

// DefaultScrapeQuestion is asked when the user scrapes a page without a
// question of their own.
const DefaultScrapeQuestion = "Please summarize the key information from this web page."

// Searcher is the search provider collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Result, error)
}

// PageScraper is the page fetcher + extractor collaborator.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scrape.Page, error)
}

// Agent owns the collaborators for a single interactive session. The
// conversation history is created by the caller and passed in; the shell
// owns its lifecycle.
type Agent struct {
	llmClient    llm.Generator
	searchClient Searcher
	scraper      PageScraper
	budget       budget.Config
	prompts      config.Prompts
	hist         *history.History
	mode         config.Mode
}

// NewAgent assembles an agent from its collaborators.
func NewAgent(llmClient llm.Generator, searchClient Searcher, scraper PageScraper,
	budgetCfg budget.Config, prompts config.Prompts, hist *history.History) *Agent {
	return &Agent{
		llmClient:    llmClient,
		searchClient: searchClient,
		scraper:      scraper,
		budget:       budgetCfg,
		prompts:      prompts,
		hist:         hist,
		mode:         config.ModeConversation,
	}
}

// Mode returns the current operating mode.
func (a *Agent) Mode() config.Mode { return a.mode }

// SetMode switches the operating mode. Unknown modes are rejected.
func (a *Agent) SetMode(mode config.Mode) error {
	if !config.IsValidMode(string(mode)) {
		return fmt.Errorf("invalid mode %q", mode)
	}
	a.mode = mode
	logger.Debug("Mode set", "mode", string(mode))
	return nil
}

// History returns the session history (caller-owned).
func (a *Agent) History() *history.History { return a.hist }

// ModelID names the loaded model.
func (a *Agent) ModelID() string { return a.llmClient.ModelID() }

// ContextWindow returns the engine's total token window.
func (a *Agent) ContextWindow() int { return a.llmClient.ContextWindow() }

// LastTokenUsage reports engine token counts from the most recent call.
func (a *Agent) LastTokenUsage() (llm.TokenUsage, bool) {
	return a.llmClient.LastTokenUsage()
}

// buildPrompt assembles the inference prompt: system prompt, the bounded
// recent history window, then the current message awaiting an assistant
// reply. Bounding happens here, at assembly time, so the stored history
// may grow while the prompt window never does.
func (a *Agent) buildPrompt(mode config.Mode, message string) string {
	var b strings.Builder

	if sys := a.prompts.For(mode); sys != "" {
		b.WriteString(sys)
		b.WriteString("\n\n")
	}

	window := budget.BoundHistory(a.hist.Turns(), a.budget.MaxHistoryTurns)
	b.WriteString(history.Transcript(window))

	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}

// ask runs one inference call for the given message, records both turns in
// history, and returns the cleaned reply. Streaming chunks are forwarded
// raw; cleaning applies to the stored and returned text.
func (a *Agent) ask(ctx context.Context, mode config.Mode, message string, onChunk func(string)) (string, error) {
	prompt := a.buildPrompt(mode, message)
	logger.Debug("Prompt assembled",
		"mode", string(mode),
		"prompt_chars", len(prompt),
		"estimated_tokens", budget.EstimateTokens(prompt))

	a.hist.Add(history.RoleUser, message)

	result, err := a.llmClient.Generate(ctx, prompt, onChunk)
	if err != nil {
		return "", fmt.Errorf("error generating response: %w", err)
	}

	reply := llm.CleanResponse(result.Text)
	a.hist.Add(history.RoleAssistant, reply)

	logger.Debug("Response generated",
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens)
	return reply, nil
}

// Converse handles one plain conversation turn.
func (a *Agent) Converse(ctx context.Context, input string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	return a.ask(ctx, config.ModeConversation, input, onChunk)
}

// Search runs a web search and asks the model to analyze the bounded
// results.
func (a *Agent) Search(ctx context.Context, query string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}

	results, err := a.searchClient.Search(ctx, query, a.budget.MaxSearchResults)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}

	bounded := budget.BoundSearchResults(results, a.budget.MaxSearchResults)
	block := fmt.Sprintf("Search Query: %s\n\nSearch Results:\n%s", query, search.FormatResults(bounded))
	block = budget.BoundDocument(block, a.budget.MaxDocumentChars, a.budget.HeadChars, a.budget.TailChars)

	question := fmt.Sprintf("Please analyze these search results for the query: %q", query)
	return a.ask(ctx, config.ModeSearch, withContext(question, block), onChunk)
}

// Scrape fetches a page and asks the model the given question about its
// bounded content. An empty question falls back to a summary request.
func (a *Agent) Scrape(ctx context.Context, url, question string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}

	page, err := a.scraper.Scrape(ctx, url)
	if err != nil {
		return "", fmt.Errorf("scraping failed: %w", err)
	}

	block := budget.BoundDocument(page.Format(), a.budget.MaxDocumentChars, a.budget.HeadChars, a.budget.TailChars)

	if strings.TrimSpace(question) == "" {
		question = DefaultScrapeQuestion
	}
	return a.ask(ctx, config.ModeScrape, withContext(question, block), onChunk)
}

// withContext appends a context block to a user message.
func withContext(message, context string) string {
	return fmt.Sprintf("%s\n\nContext:\n%s", message, context)
}
