package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/llm"
	"alfredoptarigan/idea-evaluator/internal/models"
)

// Classifier assigns every idea exactly one theme and one industry from a
// closed taxonomy. It never fails an idea: when the model cannot produce a
// valid in-taxonomy label within the retry bound, the idea carries the
// Unclassified sentinel and the pipeline moves on.
type Classifier interface {
	Classify(ctx context.Context, idea *models.Idea) models.Classification
}

type classifier struct {
	provider    llm.Provider
	taxonomy    models.Taxonomy
	prompts     *PromptBuilder
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.SugaredLogger
}

func NewClassifier(provider llm.Provider, taxonomy models.Taxonomy, maxAttempts int, baseDelay time.Duration) Classifier {
	return &classifier{
		provider:    provider,
		taxonomy:    taxonomy,
		prompts:     NewPromptBuilder(),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      zap.S().Named("classifier"),
	}
}

type classificationResponse struct {
	PrimaryTheme       string  `json:"primary_theme"`
	ThemeConfidence    float64 `json:"theme_confidence"`
	PrimaryIndustry    string  `json:"primary_industry"`
	IndustryConfidence float64 `json:"industry_confidence"`
}

// Classify implements Classifier.
func (c *classifier) Classify(ctx context.Context, idea *models.Idea) models.Classification {
	if c.taxonomy.IsEmpty() {
		c.logger.Warnf("no taxonomy configured, idea %s left unclassified", idea.IdeaID)
		return models.UnclassifiedSentinel()
	}

	system, user := c.prompts.BuildClassificationPrompts(c.taxonomy, idea.ConsolidatedText())

	var result models.Classification
	err := llm.WithRetry(ctx, c.maxAttempts, c.baseDelay, func() error {
		response, genErr := c.provider.Generate(ctx, system, user, true)
		if genErr != nil {
			return genErr
		}

		var parsed classificationResponse
		if parseErr := json.Unmarshal([]byte(extractJSON(response)), &parsed); parseErr != nil {
			return fmt.Errorf("failed to parse classification response: %w", parseErr)
		}

		theme, ok := c.taxonomy.CanonicalTheme(parsed.PrimaryTheme)
		if !ok {
			return fmt.Errorf("model returned theme outside taxonomy: %q", parsed.PrimaryTheme)
		}
		industry, ok := c.taxonomy.CanonicalIndustry(parsed.PrimaryIndustry)
		if !ok {
			return fmt.Errorf("model returned industry outside taxonomy: %q", parsed.PrimaryIndustry)
		}

		result = models.Classification{
			PrimaryTheme:       theme,
			ThemeConfidence:    clampConfidence(parsed.ThemeConfidence),
			PrimaryIndustry:    industry,
			IndustryConfidence: clampConfidence(parsed.IndustryConfidence),
		}
		return nil
	})
	if err != nil {
		c.logger.Warnf("classification gave up for idea %s: %v", idea.IdeaID, err)
		return models.UnclassifiedSentinel()
	}

	c.logger.Infof("🏷️  Idea %s classified as %s / %s", idea.IdeaID, result.PrimaryTheme, result.PrimaryIndustry)
	return result
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
