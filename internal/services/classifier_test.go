package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/idea-evaluator/internal/models"
)

func testTaxonomy() models.Taxonomy {
	return models.Taxonomy{
		Themes:     []string{"Customer Experience", "Process Automation"},
		Industries: []string{"Healthcare", "Financial Services"},
	}
}

func TestClassifierCanonicalizesLabels(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return `{"primary_theme":"process automation","theme_confidence":0.9,"primary_industry":"HEALTHCARE","industry_confidence":0.8}`, nil
	}}

	classification := NewClassifier(provider, testTaxonomy(), 3, time.Millisecond).
		Classify(context.Background(), &models.Idea{IdeaID: "IDEA-1", Title: "t"})

	assert.Equal(t, "Process Automation", classification.PrimaryTheme)
	assert.Equal(t, "Healthcare", classification.PrimaryIndustry)
	assert.Equal(t, 0.9, classification.ThemeConfidence)
}

func TestClassifierRejectsOutOfTaxonomyThenGivesUp(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return `{"primary_theme":"Blockchain","theme_confidence":1,"primary_industry":"Space","industry_confidence":1}`, nil
	}}

	classification := NewClassifier(provider, testTaxonomy(), 3, time.Millisecond).
		Classify(context.Background(), &models.Idea{IdeaID: "IDEA-1"})

	assert.Equal(t, 3, provider.callCount())
	assert.Equal(t, models.Unclassified, classification.PrimaryTheme)
	assert.Equal(t, models.Unclassified, classification.PrimaryIndustry)
	assert.Equal(t, 0.0, classification.ThemeConfidence)
}

func TestClassifierRecoversOnRetry(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		if call == 1 {
			return "not json", nil
		}
		return `{"primary_theme":"Customer Experience","theme_confidence":0.7,"primary_industry":"Financial Services","industry_confidence":0.6}`, nil
	}}

	classification := NewClassifier(provider, testTaxonomy(), 3, time.Millisecond).
		Classify(context.Background(), &models.Idea{IdeaID: "IDEA-1"})

	assert.Equal(t, 2, provider.callCount())
	assert.Equal(t, "Customer Experience", classification.PrimaryTheme)
}

func TestClassifierEmptyTaxonomySkipsModel(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		t.Fatal("provider should not be called")
		return "", nil
	}}

	classification := NewClassifier(provider, models.Taxonomy{}, 3, time.Millisecond).
		Classify(context.Background(), &models.Idea{IdeaID: "IDEA-1"})

	assert.Equal(t, 0, provider.callCount())
	assert.Equal(t, models.Unclassified, classification.PrimaryTheme)
}

func TestClassifierConfidenceClamped(t *testing.T) {
	provider := &mockProvider{fn: func(call int, _, _ string) (string, error) {
		return `{"primary_theme":"Customer Experience","theme_confidence":1.7,"primary_industry":"Healthcare","industry_confidence":-0.2}`, nil
	}}

	classification := NewClassifier(provider, testTaxonomy(), 3, time.Millisecond).
		Classify(context.Background(), &models.Idea{IdeaID: "IDEA-1"})

	assert.Equal(t, 1.0, classification.ThemeConfidence)
	assert.Equal(t, 0.0, classification.IndustryConfidence)
}
