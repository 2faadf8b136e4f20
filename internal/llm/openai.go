package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider generates text through an OpenAI-compatible Chat
// Completions API. Works with OpenAI, Azure OpenAI and compatible
// endpoints.
type OpenAIProvider struct {
	client      openai.Client
	modelName   string
	temperature float64
	maxTokens   int64
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIProvider{
		client:      openai.NewClient(opts...),
		modelName:   model,
		temperature: 0.3,
		maxTokens:   4096,
	}
}

// Name implements Provider.
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// Generate implements Provider.
func (o *OpenAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature:         openai.Float(o.temperature),
		MaxCompletionTokens: openai.Int(o.maxTokens),
	}
	if structured {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", o.classify(err)
	}

	return o.textFrom(resp)
}

// DescribeMedia implements MediaDescriber.
func (o *OpenAIProvider) DescribeMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	params := openai.ChatCompletionNewParams{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							{OfText: &openai.ChatCompletionContentPartTextParam{Text: prompt}},
							{OfImageURL: &openai.ChatCompletionContentPartImageParam{
								ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI},
							}},
						},
					},
				},
			},
		},
		Temperature:         openai.Float(o.temperature),
		MaxCompletionTokens: openai.Int(o.maxTokens),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", o.classify(err)
	}

	return o.textFrom(resp)
}

func (o *OpenAIProvider) textFrom(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", transientErr(o.Name(), "empty response", nil)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", transientErr(o.Name(), "no text content in response", nil)
	}
	return text, nil
}

func (o *OpenAIProvider) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Kind:     kindForStatus(apiErr.StatusCode),
			Provider: o.Name(),
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transientErr(o.Name(), "request timed out", err)
	}
	return transientErr(o.Name(), err.Error(), err)
}
