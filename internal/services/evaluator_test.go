package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/idea-evaluator/internal/llm"
	"alfredoptarigan/idea-evaluator/internal/models"
)

// mockProvider scripts Generate responses per call.
type mockProvider struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, systemPrompt, userPrompt string) (string, error)
}

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.fn(call, systemPrompt, userPrompt)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testRubric() []models.RubricItem {
	return []models.RubricItem{
		{Key: "impact", Name: "Impact", Weight: 0.30},
		{Key: "feasibility", Name: "Feasibility", Weight: 0.25},
		{Key: "innovation", Name: "Innovation", Weight: 0.25},
		{Key: "responsible_ai", Name: "Responsible AI", Weight: 0.20},
	}
}

func evaluationJSON(impact, feasibility, innovation, responsibleAI int, weightedTotal float64) string {
	return fmt.Sprintf(`{
		"scores": {
			"impact": {"score": %d, "justification": "j", "insufficient_info": false},
			"feasibility": {"score": %d, "justification": "j", "insufficient_info": false},
			"innovation": {"score": %d, "justification": "j", "insufficient_info": false},
			"responsible_ai": {"score": %d, "justification": "j", "insufficient_info": false}
		},
		"weighted_total": %v,
		"investment_recommendation": "go",
		"key_strengths": ["s"],
		"key_concerns": ["c"]
	}`, impact, feasibility, innovation, responsibleAI, weightedTotal)
}

func TestEvaluatorRecomputesWeightedTotal(t *testing.T) {
	// 0.30*8 + 0.25*7 + 0.25*5 + 0.20*3 = 6.00, whatever the model claims.
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return evaluationJSON(8, 7, 5, 3, 9.9), nil
	}}

	eval, err := NewEvaluator(provider, 3, time.Millisecond).
		Evaluate(context.Background(), &models.Idea{IdeaID: "IDEA-1"}, testRubric())
	require.NoError(t, err)

	assert.InDelta(t, 6.00, eval.WeightedTotal, 0.01)
	assert.Equal(t, models.RecommendConsider, eval.InvestmentRecommendation)
	assert.Equal(t, []string{"s"}, eval.KeyStrengths)
}

func TestEvaluatorPrototypeBonus(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return evaluationJSON(8, 7, 5, 3, 6.0), nil
	}}
	evaluator := NewEvaluator(provider, 3, time.Millisecond)

	idea := &models.Idea{
		IdeaID: "IDEA-1",
		AdditionalFiles: []models.AdditionalFile{
			{Reference: "demo.png", ContentType: models.ContentPrototype},
			{Reference: "demo2.png", ContentType: models.ContentPrototype},
		},
	}

	eval, err := evaluator.Evaluate(context.Background(), idea, testRubric())
	require.NoError(t, err)

	// Bonus applies once, not per prototype file.
	assert.InDelta(t, 8.00, eval.WeightedTotal, 0.01)
	assert.Equal(t, models.RecommendGo, eval.InvestmentRecommendation)
}

func TestEvaluatorBonusClampsAtTen(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return evaluationJSON(10, 10, 10, 9, 9.8), nil
	}}
	evaluator := NewEvaluator(provider, 3, time.Millisecond)

	idea := &models.Idea{
		IdeaID:          "IDEA-1",
		AdditionalFiles: []models.AdditionalFile{{ContentType: models.ContentPrototype}},
	}

	eval, err := evaluator.Evaluate(context.Background(), idea, testRubric())
	require.NoError(t, err)
	assert.Equal(t, 10.0, eval.WeightedTotal)
}

func TestEvaluatorRetriesMalformedResponse(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		if call < 3 {
			return "I cannot answer in JSON today", nil
		}
		return "```json\n" + evaluationJSON(5, 5, 5, 5, 5.0) + "\n```", nil
	}}

	eval, err := NewEvaluator(provider, 3, time.Millisecond).
		Evaluate(context.Background(), &models.Idea{IdeaID: "IDEA-1"}, testRubric())
	require.NoError(t, err)
	assert.Equal(t, 3, provider.callCount())
	assert.InDelta(t, 5.00, eval.WeightedTotal, 0.01)
}

func TestEvaluatorPartialParseKeepsSiblingScores(t *testing.T) {
	rubric := []models.RubricItem{
		{Key: "novelty", Name: "Novelty", Weight: 0.30},
		{Key: "clarity", Name: "Clarity", Weight: 0.34},
		{Key: "feasibility", Name: "Feasibility", Weight: 0.15},
		{Key: "impact", Name: "Impact", Weight: 0.21},
	}

	// One criterion comes back out of range; the other three must keep
	// their scores: 0.30*8 + 0.34*7 + 0.15*6 = 5.68.
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return `{
			"scores": {
				"novelty": {"score": 8, "justification": "j", "insufficient_info": false},
				"clarity": {"score": 7, "justification": "j", "insufficient_info": false},
				"feasibility": {"score": 6, "justification": "j", "insufficient_info": false},
				"impact": {"score": 11, "justification": "j", "insufficient_info": false}
			},
			"weighted_total": 7.0,
			"investment_recommendation": "go",
			"key_strengths": [],
			"key_concerns": []
		}`, nil
	}}

	eval, err := NewEvaluator(provider, 3, time.Millisecond).
		Evaluate(context.Background(), &models.Idea{IdeaID: "IDEA-1"}, rubric)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())

	assert.False(t, eval.Scores["impact"].Parsed)
	assert.True(t, eval.Scores["novelty"].Parsed)
	assert.True(t, eval.Scores["clarity"].Parsed)
	assert.True(t, eval.Scores["feasibility"].Parsed)
	assert.InDelta(t, 5.68, eval.WeightedTotal, 0.01)
	assert.Equal(t, models.RecommendConsider, eval.InvestmentRecommendation)
}

func TestEvaluatorParseExhaustionYieldsMarkers(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return "still not JSON", nil
	}}

	eval, err := NewEvaluator(provider, 3, time.Millisecond).
		Evaluate(context.Background(), &models.Idea{IdeaID: "IDEA-1"}, testRubric())
	require.NoError(t, err)

	require.Len(t, eval.Scores, 4)
	for _, score := range eval.Scores {
		assert.False(t, score.Parsed)
		assert.Equal(t, models.ParsingFailed, score.Justification)
	}
	assert.Equal(t, 0.0, eval.WeightedTotal)
	assert.Equal(t, models.RecommendNoGo, eval.InvestmentRecommendation)
}

func TestEvaluatorPermanentErrorFailsIdea(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return "", &llm.ProviderError{Kind: llm.Permanent, Provider: "mock", Message: "invalid api key"}
	}}

	_, err := NewEvaluator(provider, 3, time.Millisecond).
		Evaluate(context.Background(), &models.Idea{IdeaID: "IDEA-1"}, testRubric())
	require.Error(t, err)
	assert.Equal(t, 1, provider.callCount())
	assert.True(t, llm.IsPermanent(err))
}
