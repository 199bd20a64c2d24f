// Package genai abstracts the generative-model providers behind a single
// text-in/text-out interface.
package genai

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pontoedu/apostila-review/internal/config"
	"github.com/pontoedu/apostila-review/pkg/anthropic"
	"github.com/pontoedu/apostila-review/pkg/gemini"
)

// Generator produces model text for a prompt. The output is untrusted and
// goes through response repair before use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FromConfig builds the Generator selected by model.provider.
func FromConfig(cfg *config.Config) (Generator, error) {
	switch cfg.Model.Provider {
	case "claude":
		if cfg.Anthropic.APIKey == "" {
			return nil, eris.Wrap(config.ErrMissingCredential, "anthropic.api_key")
		}
		return &claudeGenerator{
			client:    anthropic.NewClient(cfg.Anthropic.APIKey),
			model:     cfg.Anthropic.Model,
			maxTokens: cfg.Anthropic.MaxTokens,
		}, nil
	case "gemini", "":
		if cfg.Gemini.APIKey == "" {
			return nil, eris.Wrap(config.ErrMissingCredential, "gemini.api_key")
		}
		return &geminiGenerator{
			client: gemini.NewClient(cfg.Gemini.APIKey,
				gemini.WithBaseURL(cfg.Gemini.BaseURL),
				gemini.WithModel(cfg.Gemini.Model),
			),
		}, nil
	default:
		return nil, eris.Errorf("genai: unknown model provider %q", cfg.Model.Provider)
	}
}

type geminiGenerator struct {
	client gemini.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateContent(ctx, prompt)
}

type claudeGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func (g *claudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Prompt:    prompt,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// GeneratorFunc adapts a function to the Generator interface; used by tests.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
