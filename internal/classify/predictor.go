package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Predictor runs the hierarchical model. The result is indexed
// [level][text][class]; a level without a head may be nil.
type Predictor interface {
	Predict(ctx context.Context, texts []string, maxLength int) ([][][]float64, error)
}

// HTTPPredictor calls a locally hosted inference server:
//
//	POST {Endpoint}/predict {"texts": [...], "max_length": 128}
//	-> {"logits": [[[...], ...], ...]}
type HTTPPredictor struct {
	Endpoint string
	Client   *http.Client
	Attempts uint
}

type predictRequest struct {
	Texts     []string `json:"texts"`
	MaxLength int      `json:"max_length"`
}

type predictResponse struct {
	Logits [][][]float64 `json:"logits"`
	Error  string        `json:"error,omitempty"`
}

func NewHTTPPredictor(endpoint string, timeout time.Duration) *HTTPPredictor {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPPredictor{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   &http.Client{Timeout: timeout},
		Attempts: 3,
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, texts []string, maxLength int) ([][][]float64, error) {
	body, err := json.Marshal(predictRequest{Texts: texts, MaxLength: maxLength})
	if err != nil {
		return nil, err
	}
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	return retry.DoWithData(
		func() ([][][]float64, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint+"/predict", bytes.NewReader(body))
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}

			var out predictResponse
			if resp.StatusCode != http.StatusOK {
				_ = json.Unmarshal(raw, &out)
				err := fmt.Errorf("predict: status %d: %s", resp.StatusCode, out.Error)
				if resp.StatusCode < 500 {
					return nil, retry.Unrecoverable(err)
				}
				return nil, err
			}
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("predict: decode response: %w", err))
			}
			return out.Logits, nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}
