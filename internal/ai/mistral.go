package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	MistralBaseURL      = "https://api.mistral.ai/v1"
	defaultMistralModel = "mistral-large-latest"
)

// MistralConfig configures the Mistral chat client. Mistral speaks the
// OpenAI chat-completions protocol, so the OpenAI SDK is pointed at it.
type MistralConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Advice     string
	Timeout    time.Duration
	Retry      RetryPolicy
	HTTPClient *http.Client // tests
}

// Mistral solves problems with Mistral chat models.
type Mistral struct {
	client openai.Client
	model  string
	advice string
	retry  RetryPolicy
}

func NewMistral(cfg MistralConfig) (*Mistral, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral: %w (set MISTRAL_API_KEY)", ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = defaultMistralModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		// retries are handled by RetryPolicy
		option.WithMaxRetries(0),
	)
	return &Mistral{client: client, model: cfg.Model, advice: cfg.Advice, retry: cfg.Retry}, nil
}

func (m *Mistral) Name() string { return "mistral" }

func (m *Mistral) Solve(ctx context.Context, number, text string) (string, error) {
	prompt := Prompt(m.advice, number, text)
	return m.retry.do(ctx, func() (string, error) {
		resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(m.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyAnswer
		}
		return resp.Choices[0].Message.Content, nil
	})
}
