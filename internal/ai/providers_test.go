package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMistralSolve(t *testing.T) {
	var gotModel, gotPrompt, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		if len(body.Messages) > 0 {
			gotPrompt = body.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "mistral-large-latest",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Ответ: 5"}}]
		}`))
	}))
	defer srv.Close()

	m, err := NewMistral(MistralConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Advice:  "Реши.",
		Retry:   RetryPolicy{Attempts: 1, Delay: time.Millisecond},
	})
	require.NoError(t, err)

	out, err := m.Solve(context.Background(), "1.", "2+3")
	require.NoError(t, err)
	assert.Equal(t, "Ответ: 5", out)
	assert.Equal(t, defaultMistralModel, gotModel)
	assert.Equal(t, "Реши. Задача №1.: 2+3", gotPrompt)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestMistralRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"message":"overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	m, err := NewMistral(MistralConfig{
		APIKey:  "k",
		BaseURL: srv.URL,
		Retry:   RetryPolicy{Attempts: 3, Delay: time.Millisecond},
	})
	require.NoError(t, err)

	out, err := m.Solve(context.Background(), "1.", "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGeminiSolve(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"x = 4"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:  "k",
		BaseURL: srv.URL,
		Retry:   RetryPolicy{Attempts: 1, Delay: time.Millisecond},
	})
	require.NoError(t, err)

	out, err := g.Solve(context.Background(), "2.", "x+1=5")
	require.NoError(t, err)
	assert.Equal(t, "x = 4", out)
	assert.Contains(t, gotPath, defaultGeminiModel+":generateContent")
}
