package ai

import (
	"context"
	"fmt"
	"strings"
)

// ProviderConfig selects and configures a Solver.
type ProviderConfig struct {
	Provider      string // off | mistral | gemini
	Model         string
	Advice        string
	MistralAPIKey string
	MistralURL    string
	GoogleAPIKey  string
	Retry         RetryPolicy
}

// New returns the Solver named by cfg.Provider.
func New(ctx context.Context, cfg ProviderConfig) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "off", "none":
		return Noop{}, nil
	case "mistral":
		return NewMistral(MistralConfig{
			APIKey:  cfg.MistralAPIKey,
			Model:   cfg.Model,
			BaseURL: cfg.MistralURL,
			Advice:  cfg.Advice,
			Retry:   cfg.Retry,
		})
	case "gemini":
		return NewGemini(ctx, GeminiConfig{
			APIKey: cfg.GoogleAPIKey,
			Model:  cfg.Model,
			Advice: cfg.Advice,
			Retry:  cfg.Retry,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %q (want off, mistral or gemini)", cfg.Provider)
	}
}
