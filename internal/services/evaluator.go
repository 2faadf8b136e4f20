package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/llm"
	"alfredoptarigan/idea-evaluator/internal/models"
)

// Evaluator scores an idea against the rubric through an LLM provider. The
// model's own weighted total is advisory only; the final total is always
// recomputed locally from the per-criterion scores and weights.
type Evaluator interface {
	Evaluate(ctx context.Context, idea *models.Idea, rubric []models.RubricItem) (*models.Evaluation, error)
}

type evaluator struct {
	provider    llm.Provider
	prompts     *PromptBuilder
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.SugaredLogger
}

func NewEvaluator(provider llm.Provider, maxAttempts int, baseDelay time.Duration) Evaluator {
	return &evaluator{
		provider:    provider,
		prompts:     NewPromptBuilder(),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      zap.S().Named("evaluator"),
	}
}

type evaluationResponse struct {
	Scores                   map[string]models.CriterionScore `json:"scores"`
	WeightedTotal            float64                          `json:"weighted_total"`
	InvestmentRecommendation string                           `json:"investment_recommendation"`
	KeyStrengths             []string                         `json:"key_strengths"`
	KeyConcerns              []string                         `json:"key_concerns"`
}

// Evaluate implements Evaluator. A permanent provider error fails the idea.
// When the response cannot be parsed within the retry bound, the idea still
// gets an evaluation whose criteria all carry the parsing-failed marker.
func (e *evaluator) Evaluate(ctx context.Context, idea *models.Idea, rubric []models.RubricItem) (*models.Evaluation, error) {
	system, user := e.prompts.BuildEvaluationPrompts(idea, rubric)

	var parsed evaluationResponse
	err := llm.WithRetry(ctx, e.maxAttempts, e.baseDelay, func() error {
		response, genErr := e.provider.Generate(ctx, system, user, true)
		if genErr != nil {
			return genErr
		}

		var candidate evaluationResponse
		if parseErr := json.Unmarshal([]byte(extractJSON(response)), &candidate); parseErr != nil {
			return fmt.Errorf("failed to parse evaluation response: %w", parseErr)
		}
		for _, item := range rubric {
			if _, ok := candidate.Scores[item.Key]; !ok {
				return fmt.Errorf("evaluation response missing criterion %q", item.Key)
			}
		}

		parsed = candidate
		return nil
	})
	if err != nil {
		if llm.IsPermanent(err) {
			return nil, fmt.Errorf("evaluation failed for idea %s: %w", idea.IdeaID, err)
		}

		e.logger.Warnf("evaluation parsing exhausted retries for idea %s: %v", idea.IdeaID, err)
		return e.parseFailedEvaluation(idea, rubric), nil
	}

	eval := &models.Evaluation{
		Scores:       make(map[string]models.CriterionScore, len(rubric)),
		KeyStrengths: parsed.KeyStrengths,
		KeyConcerns:  parsed.KeyConcerns,
	}
	for _, item := range rubric {
		eval.Scores[item.Key] = parsed.Scores[item.Key]
	}

	total := e.finalizeTotal(idea, rubric, eval)
	if math.Abs(total-parsed.WeightedTotal) > 0.01 {
		e.logger.Debugf("model weighted total %.2f disagreed with local %.2f for idea %s", parsed.WeightedTotal, total, idea.IdeaID)
	}

	e.logger.Infof("📊 Idea %s scored %.2f (%s)", idea.IdeaID, eval.WeightedTotal, eval.InvestmentRecommendation)
	return eval, nil
}

// parseFailedEvaluation builds the evaluation recorded when no model
// response could be parsed. Every criterion carries the parsing-failed
// marker and contributes nothing to the total.
func (e *evaluator) parseFailedEvaluation(idea *models.Idea, rubric []models.RubricItem) *models.Evaluation {
	eval := &models.Evaluation{
		Scores: make(map[string]models.CriterionScore, len(rubric)),
	}
	for _, item := range rubric {
		eval.Scores[item.Key] = models.CriterionScore{
			Justification: models.ParsingFailed,
			Parsed:        false,
		}
	}
	e.finalizeTotal(idea, rubric, eval)
	return eval
}

// finalizeTotal recomputes the weighted total from parsed criteria, applies
// the prototype bonus at most once, clamps to [0, 10], and derives the
// recommendation. It writes the result onto eval and returns it.
func (e *evaluator) finalizeTotal(idea *models.Idea, rubric []models.RubricItem, eval *models.Evaluation) float64 {
	var total float64
	for _, item := range rubric {
		score := eval.Scores[item.Key]
		if !score.Parsed {
			continue
		}
		total += item.Weight * float64(score.Score)
	}

	if idea.HasPrototype() {
		total += models.PrototypeBonusPoints
	}
	if total > 10 {
		total = 10
	}
	if total < 0 {
		total = 0
	}
	total = math.Round(total*100) / 100

	eval.WeightedTotal = total
	eval.InvestmentRecommendation = models.RecommendationFor(total)
	return total
}
