package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider generates text through the Anthropic Messages API.
type AnthropicProvider struct {
	client    anthropic.Client
	modelName string
	maxTokens int64
}

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}

	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		modelName: model,
		maxTokens: 4096,
	}
}

// Name implements Provider.
func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// Generate implements Provider. The structured flag has no API-level
// equivalent here; the prompt already instructs the model to answer with
// JSON only and callers validate the response.
func (a *AnthropicProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", a.classify(err)
	}

	if resp == nil || len(resp.Content) == 0 {
		return "", transientErr(a.Name(), "empty response", nil)
	}
	text := strings.TrimSpace(resp.Content[0].Text)
	if text == "" {
		return "", transientErr(a.Name(), "no text content in response", nil)
	}
	return text, nil
}

func (a *AnthropicProvider) classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Kind:     kindForStatus(apiErr.StatusCode),
			Provider: a.Name(),
			Message:  err.Error(),
			Err:      err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transientErr(a.Name(), "request timed out", err)
	}
	return transientErr(a.Name(), err.Error(), err)
}
