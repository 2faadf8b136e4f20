package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/models"
)

// minEvidenceRunes is the consolidated-text length below which high scores
// are treated as suspect: the model had almost nothing to score against.
const minEvidenceRunes = 200

// Verifier runs deterministic sanity checks over a finished evaluation.
// It only ever annotates; a failed verification never changes scores and
// never fails the idea.
type Verifier interface {
	Verify(idea *models.Idea, rubric []models.RubricItem) models.Verification
}

type verifier struct {
	logger *zap.SugaredLogger
}

func NewVerifier() Verifier {
	return &verifier{logger: zap.S().Named("verifier")}
}

// Verify implements Verifier.
func (v *verifier) Verify(idea *models.Idea, rubric []models.RubricItem) models.Verification {
	var warnings []string

	eval := idea.Evaluation
	if eval == nil {
		warnings = append(warnings, "no evaluation present")
		return models.Verification{Passed: false, Warnings: warnings}
	}

	thinEvidence := len([]rune(idea.ConsolidatedText())) < minEvidenceRunes

	for _, item := range rubric {
		score, ok := eval.Scores[item.Key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("criterion %q missing from evaluation", item.Key))
			continue
		}
		if !score.Parsed {
			warnings = append(warnings, fmt.Sprintf("criterion %q could not be parsed", item.Key))
			continue
		}
		if score.Score < 1 || score.Score > 10 {
			warnings = append(warnings, fmt.Sprintf("criterion %q score %d outside 1-10", item.Key, score.Score))
		}
		if strings.TrimSpace(score.Justification) == "" {
			warnings = append(warnings, fmt.Sprintf("criterion %q has no justification", item.Key))
		}
		if score.Score > 7 && score.InsufficientInfo {
			warnings = append(warnings, fmt.Sprintf("criterion %q scored %d despite insufficient information", item.Key, score.Score))
		}
		if score.Score > 7 && thinEvidence {
			warnings = append(warnings, fmt.Sprintf("criterion %q scored %d with near-empty submission content", item.Key, score.Score))
		}
	}

	for key := range eval.Scores {
		if !rubricHasKey(rubric, key) {
			warnings = append(warnings, fmt.Sprintf("evaluation contains unknown criterion %q", key))
		}
	}

	if eval.WeightedTotal < 0 || eval.WeightedTotal > 10 {
		warnings = append(warnings, fmt.Sprintf("weighted total %.2f outside 0-10", eval.WeightedTotal))
	}

	switch eval.InvestmentRecommendation {
	case models.RecommendGo, models.RecommendConsider, models.RecommendNoGo:
		if expected := models.RecommendationFor(eval.WeightedTotal); eval.InvestmentRecommendation != expected {
			warnings = append(warnings, fmt.Sprintf("recommendation %q does not match weighted total %.2f (expected %q)",
				eval.InvestmentRecommendation, eval.WeightedTotal, expected))
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown recommendation %q", eval.InvestmentRecommendation))
	}

	if len(warnings) > 0 {
		v.logger.Debugf("verification flagged idea %s: %v", idea.IdeaID, warnings)
	}

	return models.Verification{Passed: len(warnings) == 0, Warnings: warnings}
}

func rubricHasKey(rubric []models.RubricItem, key string) bool {
	for _, item := range rubric {
		if item.Key == key {
			return true
		}
	}
	return false
}
