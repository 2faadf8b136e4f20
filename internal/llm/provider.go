// Package llm provides a provider-agnostic text generation capability over
// interchangeable LLM backends. Providers hold no per-call mutable state
// and are safe for concurrent use by multiple pipeline workers.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the uniform capability every backend implements.
type Provider interface {
	// Generate sends a system and user prompt and returns the raw model
	// text. When structured is true the backend is asked for JSON output
	// where the API supports it; callers still validate the response.
	Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error)

	// Name returns the provider name (e.g. "gemini", "openai").
	Name() string
}

// MediaDescriber is implemented by vision-capable providers and backs the
// extractor's LLM-assisted description pass for non-text formats.
type MediaDescriber interface {
	DescribeMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

type ErrorKind string

const (
	// Transient failures (timeout, rate limit, 5xx) are retried by the
	// caller with bounded exponential backoff.
	Transient ErrorKind = "transient"
	// Permanent failures (auth, malformed request) propagate immediately.
	Permanent ErrorKind = "permanent"
)

// ProviderError is the normalized failure every backend reports.
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (%s): %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func transientErr(provider, message string, err error) *ProviderError {
	return &ProviderError{Kind: Transient, Provider: provider, Message: message, Err: err}
}

func permanentErr(provider, message string, err error) *ProviderError {
	return &ProviderError{Kind: Permanent, Provider: provider, Message: message, Err: err}
}

// IsPermanent reports whether err is a permanent provider error, which the
// retry combinator must not retry.
func IsPermanent(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == Permanent
}

// IsTransient reports whether err is a retryable provider error.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == Transient
}

// kindForStatus maps an HTTP status code from a backend API onto the error
// taxonomy: rate limits, timeouts and server errors retry; client errors
// do not.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 408 || status == 429:
		return Transient
	case status >= 500:
		return Transient
	default:
		return Permanent
	}
}
