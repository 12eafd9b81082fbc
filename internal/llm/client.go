package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// NoAnswer is returned when the model replies with empty content.
const NoAnswer = "No answer."

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available reports whether the provider looks usable.
	Available(ctx context.Context) bool
}

// NewClient builds the client for cfg.Provider. A disabled config yields
// (nil, nil) so callers can fall back to deterministic answers.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	case ProviderAzure:
		return NewAzureClient(cfg, observer)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, observer)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// resolved is a request with task defaults applied.
type resolved struct {
	GenerateRequest
	temperature float64
	maxTokens   int
}

// attemptFunc performs one provider round trip and returns the text and the
// model that produced it.
type attemptFunc func(ctx context.Context, req resolved) (string, string, error)

// caller holds what every provider shares: config, observer, retries.
type caller struct {
	cfg      LLMConfig
	observer Observer
}

func newCaller(cfg LLMConfig, observer Observer) caller {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderOllama
	}
	return caller{cfg: cfg, observer: observer}
}

// run applies task defaults and the task timeout, then calls attempt up to
// 1+MaxRetries times. Each attempt gets its own slice of the timeout so one
// hung attempt can still be followed by a retry.
func (c caller) run(ctx context.Context, req GenerateRequest, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	r := resolved{GenerateRequest: req, temperature: taskCfg.Temperature, maxTokens: taskCfg.MaxTokens}
	if req.Temperature != nil {
		r.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		r.maxTokens = *req.MaxTokens
	}

	timeout := time.Duration(c.cfg.TaskTimeout(req.Task)) * time.Millisecond
	attempts := 1 + c.cfg.MaxRetries

	var (
		lastErr  error
		timedOut bool
		n        int
	)
	for n = 1; n <= attempts; n++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, model, err := attempt(attemptCtx, r)
		timedOut = attemptCtx.Err() != nil
		cancel()

		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observe(req.Task, latency, n, "")
			if strings.TrimSpace(text) == "" {
				text = NoAnswer
			}
			return &GenerateResponse{
				Text:      strings.TrimSpace(text),
				Model:     firstNonEmpty(model, c.cfg.Model),
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// the caller gave up; retrying cannot help
		if ctx.Err() != nil {
			break
		}
	}
	if n > attempts {
		n = attempts
	}

	var final error
	switch {
	case ctx.Err() != nil || timedOut:
		final = ErrTimeout
	case isConnectionError(lastErr):
		final = ErrUnavailable
	default:
		final = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
	c.observe(req.Task, time.Since(start).Milliseconds(), n, errorCode(final))
	return nil, final
}

func (c caller) observe(task TaskType, latency int64, attempts int, code string) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   code == "",
		ErrorCode: code,
	})
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
