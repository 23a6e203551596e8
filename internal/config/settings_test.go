package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetDefaultSettings(t *testing.T) {
	s := GetDefaultSettings()

	if s.LLM.Model != "gpt-oss:20b" {
		t.Errorf("default model: %q", s.LLM.Model)
	}
	if s.LLM.ContextWindow != 2048 {
		t.Errorf("default context window: %d", s.LLM.ContextWindow)
	}
	if s.LLM.MaxTokens != 512 {
		t.Errorf("default max tokens: %d", s.LLM.MaxTokens)
	}
	if s.Budget.MaxHistoryTurns != 6 {
		t.Errorf("default history turns: %d", s.Budget.MaxHistoryTurns)
	}
	if s.Budget.MaxDocumentChars != 5000 || s.Budget.HeadChars != 3000 || s.Budget.TailChars != 2000 {
		t.Errorf("default document budget: %+v", s.Budget)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestLoadSettings_ExplicitMissingPath(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope", "settings.json")); err == nil {
		t.Fatal("explicit missing path should be an error")
	}
}

func TestLoadSettings_SparseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	content := `{"llm": {"model": "llama3.2:3b", "temperature": 0.7}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings fixture: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if s.LLM.Model != "llama3.2:3b" {
		t.Errorf("overridden model: %q", s.LLM.Model)
	}
	if s.LLM.Temperature != 0.7 {
		t.Errorf("overridden temperature: %v", s.LLM.Temperature)
	}
	// Unset fields fall back to defaults.
	if s.LLM.ContextWindow != 2048 {
		t.Errorf("context window default not applied: %d", s.LLM.ContextWindow)
	}
	if s.Search.Region != "wt-wt" {
		t.Errorf("search region default not applied: %q", s.Search.Region)
	}
	if s.Budget.MaxDocumentChars != 5000 {
		t.Errorf("budget default not applied: %+v", s.Budget)
	}
}

func TestSaveAndReloadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.json")

	original := GetDefaultSettings()
	original.LLM.Model = "custom:latest"
	original.Budget.MaxSearchResults = 5

	if err := SaveSettings(path, original); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reloaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if reloaded.LLM.Model != "custom:latest" {
		t.Errorf("model after round trip: %q", reloaded.LLM.Model)
	}
	if reloaded.Budget.MaxSearchResults != 5 {
		t.Errorf("budget after round trip: %+v", reloaded.Budget)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty model", func(s *Settings) { s.LLM.Model = "" }},
		{"zero context window", func(s *Settings) { s.LLM.ContextWindow = 0 }},
		{"zero max tokens", func(s *Settings) { s.LLM.MaxTokens = 0 }},
		{"max tokens fills window", func(s *Settings) { s.LLM.MaxTokens = s.LLM.ContextWindow }},
		{"negative temperature", func(s *Settings) { s.LLM.Temperature = -0.1 }},
		{"bad safesearch", func(s *Settings) { s.Search.SafeSearch = "paranoid" }},
		{"zero scrape timeout", func(s *Settings) { s.Scrape.TimeoutSeconds = 0 }},
		{"broken budget", func(s *Settings) { s.Budget.HeadChars = 9000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GetDefaultSettings()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Fatal("expected a validation error, got nil")
			}
		})
	}
}

func TestConfigConversions(t *testing.T) {
	s := GetDefaultSettings()

	oc := s.OllamaConfig()
	if oc.Model != s.LLM.Model || oc.ContextWindow != s.LLM.ContextWindow || oc.MaxTokens != s.LLM.MaxTokens {
		t.Errorf("ollama config: %+v", oc)
	}

	sc := s.SearchConfig()
	if sc.Timeout != 10*time.Second || sc.Region != "wt-wt" {
		t.Errorf("search config: %+v", sc)
	}

	pc := s.ScrapeConfig()
	if pc.Timeout != 15*time.Second || pc.MaxLinks != 20 {
		t.Errorf("scrape config: %+v", pc)
	}
}
