package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects which flow an interaction runs through. Each mode has its
// own system prompt.
type Mode string

const (
	ModeConversation Mode = "conversation"
	ModeSearch       Mode = "search"
	ModeScrape       Mode = "scrape"
)

// Modes lists all valid modes in display order.
func Modes() []Mode {
	return []Mode{ModeConversation, ModeSearch, ModeScrape}
}

// IsValidMode reports whether name is a known mode.
func IsValidMode(name string) bool {
	switch Mode(name) {
	case ModeConversation, ModeSearch, ModeScrape:
		return true
	}
	return false
}

// Prompts holds the per-mode system prompts.
type Prompts struct {
	Conversation string `yaml:"conversation"`
	Search       string `yaml:"search"`
	Scrape       string `yaml:"scrape"`
}

// DefaultPrompts returns the built-in system prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		Conversation: "You are a helpful AI assistant. Provide clear, accurate, and concise responses.",
		Search:       "You are a search assistant. Analyze the search results and provide a comprehensive summary.",
		Scrape:       "You are a data extraction assistant. Extract and present the relevant information clearly.",
	}
}

// LoadPrompts reads system prompt overrides from a YAML file, keeping the
// built-in defaults for any prompt the file leaves empty. An empty path
// returns the defaults.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prompts, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var overrides Prompts
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return prompts, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	if overrides.Conversation != "" {
		prompts.Conversation = overrides.Conversation
	}
	if overrides.Search != "" {
		prompts.Search = overrides.Search
	}
	if overrides.Scrape != "" {
		prompts.Scrape = overrides.Scrape
	}
	return prompts, nil
}

// For returns the system prompt for a mode.
func (p Prompts) For(mode Mode) string {
	switch mode {
	case ModeSearch:
		return p.Search
	case ModeScrape:
		return p.Scrape
	default:
		return p.Conversation
	}
}
