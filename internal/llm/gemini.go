package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider generates text through the Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	modelName   string
	temperature float32
	maxTokens   int32
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiProvider{
		client:      client,
		modelName:   model,
		temperature: 0.3,
		maxTokens:   4096,
	}, nil
}

// Name implements Provider.
func (g *GeminiProvider) Name() string {
	return "gemini"
}

// Generate implements Provider.
func (g *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxTokens,
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if structured {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userPrompt), config)
	if err != nil {
		return "", g.classify(err)
	}

	return g.textFrom(resp)
}

// DescribeMedia implements MediaDescriber.
func (g *GeminiProvider) DescribeMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxTokens,
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", g.classify(err)
	}

	return g.textFrom(resp)
}

func (g *GeminiProvider) textFrom(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", transientErr(g.Name(), "nil response", nil)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", transientErr(g.Name(), "no text content in response", nil)
	}
	return text, nil
}

func (g *GeminiProvider) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Kind:     kindForStatus(apiErr.Code),
			Provider: g.Name(),
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transientErr(g.Name(), "request timed out", err)
	}
	// Network-level failures without an API status retry.
	return transientErr(g.Name(), err.Error(), err)
}
