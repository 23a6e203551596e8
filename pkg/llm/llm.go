// Package llm defines the inference engine contract. The engine is a black
// box: it takes an assembled prompt plus fixed generation parameters and
// returns generated text, or fails when the prompt and requested output do
// not fit its context window.
package llm

import "context"

// TokenUsage carries token counts reported by the engine for one call.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Result is the outcome of one generation call.
type Result struct {
	Text  string
	Usage TokenUsage
}

// Generator is a synchronous prompt-completion engine. Generate streams
// chunks through onChunk as they arrive (onChunk may be nil) and returns
// the accumulated text.
type Generator interface {
	Generate(ctx context.Context, prompt string, onChunk func(string)) (Result, error)

	// ModelID names the loaded model.
	ModelID() string

	// ContextWindow is the fixed total token window (prompt + output).
	ContextWindow() int

	// LastTokenUsage reports usage from the most recent call, when the
	// backend supplied counts.
	LastTokenUsage() (TokenUsage, bool)
}
