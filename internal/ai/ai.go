package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultAdvice is prepended to every problem sent to the model.
const DefaultAdvice = "Реши задачу по математике. " +
	"Ответ должен быть полным и пошаговым. " +
	"Если текст задачи, несмотря на контекст непонятен, то таком случае верни текст 'Некорректное условие задачи'"

var (
	ErrEmptyAnswer   = errors.New("model returned an empty answer")
	ErrMissingAPIKey = errors.New("missing api key")
)

// Solver produces a worked solution for one problem.
type Solver interface {
	Solve(ctx context.Context, number, text string) (string, error)
	Name() string
}

// Noop leaves every problem unsolved.
type Noop struct{}

func (Noop) Solve(ctx context.Context, number, text string) (string, error) { return "", nil }
func (Noop) Name() string                                                 { return "off" }

// Prompt builds the user message for a problem.
func Prompt(advice, number, text string) string {
	if advice == "" {
		advice = DefaultAdvice
	}
	return fmt.Sprintf("%s Задача №%s: %s", advice, number, text)
}

// RetryPolicy controls how provider calls are retried.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts == 0 {
		p.Attempts = 3
	}
	if p.Delay == 0 {
		p.Delay = 2 * time.Second
	}
	return p
}

// do runs call with backoff; an empty answer counts as a failure.
func (p RetryPolicy) do(ctx context.Context, call func() (string, error)) (string, error) {
	p = p.withDefaults()
	return retry.DoWithData(
		func() (string, error) {
			out, err := call()
			if err != nil {
				return "", err
			}
			out = strings.TrimSpace(stripCodeFences(out))
			if out == "" {
				return "", ErrEmptyAnswer
			}
			return out, nil
		},
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
