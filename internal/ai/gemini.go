package ai

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini solves problems with Google's Gemini models.
type Gemini struct {
	client *genai.Client
	model  string
	advice string
	retry  RetryPolicy
}

// GeminiConfig configures NewGemini. Empty fields take defaults.
type GeminiConfig struct {
	APIKey string
	Model  string
	Advice string
	Retry  RetryPolicy

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w (set GOOGLE_API_KEY)", ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: cfg.Model, advice: cfg.Advice, retry: cfg.Retry}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Solve(ctx context.Context, number, text string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini not configured")
	}
	prompt := Prompt(g.advice, number, text)
	return g.retry.do(ctx, func() (string, error) {
		res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		}, nil)
		if err != nil {
			return "", err
		}
		return res.Text(), nil
	})
}
