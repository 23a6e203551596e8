package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/canerkonuk/GptOss20BAgent/internal/budget"
	"github.com/canerkonuk/GptOss20BAgent/internal/scrape"
	"github.com/canerkonuk/GptOss20BAgent/internal/search"
	"github.com/canerkonuk/GptOss20BAgent/pkg/llm/ollama"
)

// settingsFileName is searched for in the working directory when no
// explicit path is given, then in the per-user directory.
const settingsFileName = "settings.json"

// Settings is the single explicit configuration structure for the whole
// application. Every field is typed and carries a documented default;
// Validate runs once at startup and fails fast on malformed values.
type Settings struct {
	LLM    LLMSettings    `json:"llm"`
	Search SearchSettings `json:"search"`
	Scrape ScrapeSettings `json:"scrape"`
	Budget budget.Config  `json:"budget"`
	UI     UISettings     `json:"ui"`
}

// LLMSettings contains the inference engine configuration. Defaults are
// tuned for gpt-oss:20b on a 2048-token window.
type LLMSettings struct {
	BaseURL       string   `json:"base_url"`       // Ollama server URL
	Model         string   `json:"model"`          // model name
	ContextWindow int      `json:"context_window"` // total token window (prompt + output)
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	TopK          int      `json:"top_k"`
	MaxTokens     int      `json:"max_tokens"` // maximum output tokens per call
	RepeatPenalty float64  `json:"repeat_penalty"`
	Stop          []string `json:"stop,omitempty"`
}

// SearchSettings contains search provider parameters.
type SearchSettings struct {
	Region         string `json:"region"`     // "wt-wt" = worldwide
	SafeSearch     string `json:"safesearch"` // strict, moderate, or off
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ScrapeSettings contains page fetcher parameters.
type ScrapeSettings struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxLinks       int    `json:"max_links"`
	UserAgent      string `json:"user_agent"`
}

// UISettings contains shell behavior configuration.
type UISettings struct {
	LogLevel    string `json:"log_level"`
	PromptsFile string `json:"prompts_file,omitempty"` // optional YAML system prompt overrides
}

// GetDefaultSettings returns default application settings.
func GetDefaultSettings() *Settings {
	return &Settings{
		LLM: LLMSettings{
			BaseURL:       "http://localhost:11434",
			Model:         "gpt-oss:20b",
			ContextWindow: 2048,
			Temperature:   0.2,
			TopP:          0.8,
			TopK:          30,
			MaxTokens:     512,
			RepeatPenalty: 1.2,
			Stop:          []string{"User:", "\nUser:", "\n\n\n", "<|end|>"},
		},
		Search: SearchSettings{
			Region:         "wt-wt",
			SafeSearch:     "moderate",
			TimeoutSeconds: 10,
		},
		Scrape: ScrapeSettings{
			TimeoutSeconds: 15,
			MaxLinks:       20,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Budget: budget.DefaultConfig(),
		UI: UISettings{
			LogLevel: "info",
		},
	}
}

// LoadSettings loads settings from the given path, or searches the working
// directory and the per-user directory when the path is empty. A missing
// file yields defaults.
func LoadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			return GetDefaultSettings(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := GetDefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(settings)
	return settings, nil
}

// SaveSettings writes settings as pretty-printed JSON.
func SaveSettings(configPath string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// findSettingsFile returns an existing settings path, preferring the
// working directory over the per-user directory.
func findSettingsFile() string {
	if _, err := os.Stat(settingsFileName); err == nil {
		return settingsFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".gptoss-agent", settingsFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// applyDefaults fills in missing fields with default values so a sparse
// settings file stays usable.
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = defaults.LLM.BaseURL
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = defaults.LLM.Model
	}
	if settings.LLM.ContextWindow == 0 {
		settings.LLM.ContextWindow = defaults.LLM.ContextWindow
	}
	if settings.LLM.MaxTokens == 0 {
		settings.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if settings.LLM.Stop == nil {
		settings.LLM.Stop = defaults.LLM.Stop
	}

	if settings.Search.Region == "" {
		settings.Search.Region = defaults.Search.Region
	}
	if settings.Search.SafeSearch == "" {
		settings.Search.SafeSearch = defaults.Search.SafeSearch
	}
	if settings.Search.TimeoutSeconds == 0 {
		settings.Search.TimeoutSeconds = defaults.Search.TimeoutSeconds
	}

	if settings.Scrape.TimeoutSeconds == 0 {
		settings.Scrape.TimeoutSeconds = defaults.Scrape.TimeoutSeconds
	}
	if settings.Scrape.MaxLinks == 0 {
		settings.Scrape.MaxLinks = defaults.Scrape.MaxLinks
	}
	if settings.Scrape.UserAgent == "" {
		settings.Scrape.UserAgent = defaults.Scrape.UserAgent
	}

	if settings.Budget == (budget.Config{}) {
		settings.Budget = defaults.Budget
	}

	if settings.UI.LogLevel == "" {
		settings.UI.LogLevel = defaults.UI.LogLevel
	}
}

// Validate checks the whole configuration once at startup.
func (s *Settings) Validate() error {
	if s.LLM.Model == "" {
		return fmt.Errorf("config: llm.model must be set")
	}
	if s.LLM.ContextWindow <= 0 {
		return fmt.Errorf("config: llm.context_window must be positive, got %d", s.LLM.ContextWindow)
	}
	if s.LLM.MaxTokens <= 0 {
		return fmt.Errorf("config: llm.max_tokens must be positive, got %d", s.LLM.MaxTokens)
	}
	if s.LLM.MaxTokens >= s.LLM.ContextWindow {
		return fmt.Errorf("config: llm.max_tokens (%d) must leave room for the prompt within context_window (%d)",
			s.LLM.MaxTokens, s.LLM.ContextWindow)
	}
	if s.LLM.Temperature < 0 {
		return fmt.Errorf("config: llm.temperature must not be negative, got %v", s.LLM.Temperature)
	}
	if err := s.SearchConfig().Validate(); err != nil {
		return err
	}
	if err := s.ScrapeConfig().Validate(); err != nil {
		return err
	}
	if err := s.Budget.Validate(); err != nil {
		return err
	}
	return nil
}

// OllamaConfig converts settings to the inference client configuration.
func (s *Settings) OllamaConfig() ollama.Config {
	return ollama.Config{
		BaseURL:       s.LLM.BaseURL,
		Model:         s.LLM.Model,
		ContextWindow: s.LLM.ContextWindow,
		Temperature:   s.LLM.Temperature,
		TopP:          s.LLM.TopP,
		TopK:          s.LLM.TopK,
		MaxTokens:     s.LLM.MaxTokens,
		RepeatPenalty: s.LLM.RepeatPenalty,
		Stop:          s.LLM.Stop,
	}
}

// SearchConfig converts settings to the search client configuration.
func (s *Settings) SearchConfig() search.Config {
	return search.Config{
		Region:     s.Search.Region,
		SafeSearch: s.Search.SafeSearch,
		Timeout:    time.Duration(s.Search.TimeoutSeconds) * time.Second,
		UserAgent:  s.Scrape.UserAgent,
	}
}

// ScrapeConfig converts settings to the scraper configuration.
func (s *Settings) ScrapeConfig() scrape.Config {
	return scrape.Config{
		Timeout:   time.Duration(s.Scrape.TimeoutSeconds) * time.Second,
		UserAgent: s.Scrape.UserAgent,
		MaxLinks:  s.Scrape.MaxLinks,
	}
}
