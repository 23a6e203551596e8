// Package ollama implements the llm.Generator contract against a local
// Ollama server. All generation parameters are fixed at construction from
// configuration; each call is one synchronous streamed completion.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"github.com/canerkonuk/GptOss20BAgent/pkg/llm"
)

// Config carries the model identity and generation parameters.
type Config struct {
	BaseURL       string // Ollama server URL; empty means the OLLAMA_HOST environment default
	Model         string
	ContextWindow int // num_ctx: total token window for prompt + output

	Temperature   float64
	TopP          float64
	TopK          int
	MaxTokens     int // num_predict: maximum output tokens per call
	RepeatPenalty float64
	Stop          []string
}

// Client is an llm.Generator backed by the Ollama generate API.
type Client struct {
	client *api.Client
	cfg    Config

	lastUsage llm.TokenUsage
}

var _ llm.Generator = (*Client)(nil)

// NewClient creates a client for the configured server and model.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama: model name is required")
	}

	var apiClient *api.Client
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("ollama: invalid base URL %q: %v", cfg.BaseURL, err)
		}
		apiClient = api.NewClient(base, http.DefaultClient)
	} else {
		var err error
		apiClient, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
	}

	return &Client{client: apiClient, cfg: cfg}, nil
}

// CheckModel verifies the server is reachable and the model is present,
// returning an actionable error otherwise. Called once at startup.
func (c *Client) CheckModel(ctx context.Context) error {
	if _, err := c.client.Version(ctx); err != nil {
		return errors.Wrapf(err, "cannot reach Ollama server (base_url=%q); is `ollama serve` running", c.cfg.BaseURL)
	}
	if _, err := c.client.Show(ctx, &api.ShowRequest{Model: c.cfg.Model}); err != nil {
		return errors.Wrapf(err, "model %q is not available; fetch it with `ollama pull %s`", c.cfg.Model, c.cfg.Model)
	}
	return nil
}

// options builds the Ollama request options map from the fixed parameters.
func (c *Client) options() map[string]any {
	opts := map[string]any{
		"temperature":    c.cfg.Temperature,
		"top_p":          c.cfg.TopP,
		"top_k":          c.cfg.TopK,
		"num_predict":    c.cfg.MaxTokens,
		"repeat_penalty": c.cfg.RepeatPenalty,
	}
	if c.cfg.ContextWindow > 0 {
		opts["num_ctx"] = c.cfg.ContextWindow
	}
	if len(c.cfg.Stop) > 0 {
		opts["stop"] = c.cfg.Stop
	}
	return opts
}

// Generate runs one streamed completion, forwarding chunks to onChunk and
// returning the accumulated text. Token counts are captured from the final
// chunk when the backend supplies them.
func (c *Client) Generate(ctx context.Context, prompt string, onChunk func(string)) (llm.Result, error) {
	req := &api.GenerateRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Options: c.options(),
	}

	var text strings.Builder
	var usage llm.TokenUsage

	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		if resp.Response != "" {
			text.WriteString(resp.Response)
			if onChunk != nil {
				onChunk(resp.Response)
			}
		}
		if resp.Done {
			usage.InputTokens = resp.PromptEvalCount
			usage.OutputTokens = resp.EvalCount
			usage.TotalTokens = usage.InputTokens + usage.OutputTokens
		}
		return nil
	})
	if err != nil {
		// Stale counts from an earlier call must not survive a failure;
		// the status line would otherwise report usage that never happened.
		c.lastUsage = llm.TokenUsage{}
		return llm.Result{}, errors.Wrap(err, "ollama generate error")
	}

	c.lastUsage = usage
	return llm.Result{Text: text.String(), Usage: usage}, nil
}

// ModelID names the configured model.
func (c *Client) ModelID() string { return c.cfg.Model }

// ContextWindow returns the configured total token window.
func (c *Client) ContextWindow() int { return c.cfg.ContextWindow }

// LastTokenUsage reports counts from the most recent call, if any.
func (c *Client) LastTokenUsage() (llm.TokenUsage, bool) {
	if c.lastUsage.TotalTokens == 0 {
		return llm.TokenUsage{}, false
	}
	return c.lastUsage, true
}
