package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/idea-evaluator/internal/models"
)

func richIdea() *models.Idea {
	long := strings.Repeat("A detailed description of the idea and its market. ", 10)
	return &models.Idea{
		IdeaID:  "IDEA-1",
		Title:   "Smart triage",
		Summary: long,
	}
}

func cleanEvaluation() *models.Evaluation {
	return &models.Evaluation{
		Scores: map[string]models.CriterionScore{
			"impact":         {Score: 8, Justification: "j", Parsed: true},
			"feasibility":    {Score: 7, Justification: "j", Parsed: true},
			"innovation":     {Score: 5, Justification: "j", Parsed: true},
			"responsible_ai": {Score: 3, Justification: "j", Parsed: true},
		},
		WeightedTotal:            6.0,
		InvestmentRecommendation: models.RecommendConsider,
	}
}

func TestVerifierPassesCleanEvaluation(t *testing.T) {
	idea := richIdea()
	idea.Evaluation = cleanEvaluation()

	v := NewVerifier().Verify(idea, testRubric())
	assert.True(t, v.Passed)
	assert.Empty(t, v.Warnings)
}

func TestVerifierFlagsInsufficientInfoHighScore(t *testing.T) {
	idea := richIdea()
	idea.Evaluation = cleanEvaluation()
	idea.Evaluation.Scores["impact"] = models.CriterionScore{
		Score: 9, Justification: "j", InsufficientInfo: true, Parsed: true,
	}

	v := NewVerifier().Verify(idea, testRubric())
	assert.False(t, v.Passed)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "insufficient information")
}

func TestVerifierFlagsHighScoreOnThinContent(t *testing.T) {
	idea := &models.Idea{IdeaID: "IDEA-1", Title: "x"}
	idea.Evaluation = cleanEvaluation()

	v := NewVerifier().Verify(idea, testRubric())
	assert.False(t, v.Passed)
	assert.Contains(t, v.Warnings[0], "near-empty")
}

func TestVerifierFlagsBandMismatch(t *testing.T) {
	idea := richIdea()
	idea.Evaluation = cleanEvaluation()
	idea.Evaluation.InvestmentRecommendation = models.RecommendGo

	v := NewVerifier().Verify(idea, testRubric())
	assert.False(t, v.Passed)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "does not match")
}

func TestVerifierFlagsUnparsedCriteria(t *testing.T) {
	idea := richIdea()
	idea.Evaluation = cleanEvaluation()
	idea.Evaluation.Scores["impact"] = models.CriterionScore{Justification: models.ParsingFailed}

	v := NewVerifier().Verify(idea, testRubric())
	assert.False(t, v.Passed)
	assert.Contains(t, v.Warnings[0], "could not be parsed")
}

func TestVerifierFlagsMissingEvaluation(t *testing.T) {
	v := NewVerifier().Verify(richIdea(), testRubric())
	assert.False(t, v.Passed)
	require.Len(t, v.Warnings, 1)
}

func TestVerifierFlagsUnknownCriterion(t *testing.T) {
	idea := richIdea()
	idea.Evaluation = cleanEvaluation()
	idea.Evaluation.Scores["vibes"] = models.CriterionScore{Score: 10, Justification: "j", Parsed: true}

	v := NewVerifier().Verify(idea, testRubric())
	assert.False(t, v.Passed)
}
