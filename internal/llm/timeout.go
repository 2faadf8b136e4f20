package llm

import (
	"context"
	"time"
)

// WithTimeout wraps a provider so every call carries a per-request
// deadline. Vision capability is preserved when the inner provider has it.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	tp := timeoutProvider{inner: p, timeout: timeout}
	if describer, ok := p.(MediaDescriber); ok {
		return &timeoutVisionProvider{timeoutProvider: tp, describer: describer}
	}
	return &tp
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// Name implements Provider.
func (t *timeoutProvider) Name() string {
	return t.inner.Name()
}

// Generate implements Provider.
func (t *timeoutProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, systemPrompt, userPrompt, structured)
}

type timeoutVisionProvider struct {
	timeoutProvider
	describer MediaDescriber
}

// DescribeMedia implements MediaDescriber.
func (t *timeoutVisionProvider) DescribeMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.describer.DescribeMedia(ctx, prompt, data, mimeType)
}
