package llm

import "errors"

var (
	// ErrUnavailable indicates the model endpoint is unreachable.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrNotConfigured indicates the selected provider lacks an endpoint,
	// key or model.
	ErrNotConfigured = errors.New("llm provider not configured")

	ErrUnknownProvider = errors.New("unknown llm provider")
)
