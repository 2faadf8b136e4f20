package models

import (
	"encoding/json"
	"math"
	"strings"
)

type IdeaStatus string

const (
	IdeaPending     IdeaStatus = "pending"
	IdeaExtracting  IdeaStatus = "extracting"
	IdeaClassifying IdeaStatus = "classifying"
	IdeaEvaluating  IdeaStatus = "evaluating"
	IdeaVerifying   IdeaStatus = "verifying"
	IdeaCompleted   IdeaStatus = "completed"
	IdeaFailed      IdeaStatus = "failed"
)

type ContentType string

const (
	ContentDocument    ContentType = "document"
	ContentSpreadsheet ContentType = "spreadsheet"
	ContentSlideDeck   ContentType = "slide-deck"
	ContentPrototype   ContentType = "prototype"
	ContentVideo       ContentType = "video"
	ContentUnknown     ContentType = "unknown"
)

type ExtractionStatus string

const (
	ExtractionOK     ExtractionStatus = "ok"
	ExtractionFailed ExtractionStatus = "failed"
)

// ParsingFailed is the literal marker recorded for a criterion whose model
// response could not be parsed within the retry bound.
const ParsingFailed = "Parsing failed"

// Unclassified is the sentinel used when classification could not produce a
// valid in-taxonomy label.
const Unclassified = "Unclassified"

type AdditionalFile struct {
	Reference        string           `json:"reference"`
	ContentType      ContentType      `json:"content_type"`
	ExtractedText    string           `json:"extracted_text"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
}

type Classification struct {
	PrimaryTheme       string  `json:"primary_theme"`
	ThemeConfidence    float64 `json:"theme_confidence"`
	PrimaryIndustry    string  `json:"primary_industry"`
	IndustryConfidence float64 `json:"industry_confidence"`
}

// UnclassifiedSentinel is what an idea carries when the classifier gives up.
func UnclassifiedSentinel() Classification {
	return Classification{
		PrimaryTheme:    Unclassified,
		PrimaryIndustry: Unclassified,
	}
}

// CriterionScore is one scored rubric criterion. Parsed=false means the
// model response for this criterion could not be parsed; it serializes with
// the "Parsing failed" marker in place of a numeric score.
type CriterionScore struct {
	Score            int
	Justification    string
	InsufficientInfo bool
	Parsed           bool
}

type criterionScoreJSON struct {
	Score            any    `json:"score"`
	Justification    string `json:"justification"`
	InsufficientInfo bool   `json:"insufficient_info"`
}

func (c CriterionScore) MarshalJSON() ([]byte, error) {
	out := criterionScoreJSON{
		Justification:    c.Justification,
		InsufficientInfo: c.InsufficientInfo,
	}
	if c.Parsed {
		out.Score = c.Score
	} else {
		out.Score = ParsingFailed
	}
	return json.Marshal(out)
}

func (c *CriterionScore) UnmarshalJSON(data []byte) error {
	var raw criterionScoreJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Justification = raw.Justification
	c.InsufficientInfo = raw.InsufficientInfo
	// An out-of-range or fractional score is a parse failure for this one
	// criterion only; sibling criteria keep their scores.
	switch v := raw.Score.(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 || v > 10 {
			c.Parsed = false
			return nil
		}
		c.Score = int(v)
		c.Parsed = true
	default:
		c.Parsed = false
	}
	return nil
}

const (
	RecommendGo          = "go"
	RecommendConsider    = "consider-with-mitigations"
	RecommendNoGo        = "no-go"
	GoThreshold          = 7.5
	ConsiderThreshold    = 5.0
	PrototypeBonusPoints = 2.0
)

// RecommendationFor derives the investment recommendation from the
// post-bonus, clamped weighted total.
func RecommendationFor(weightedTotal float64) string {
	switch {
	case weightedTotal >= GoThreshold:
		return RecommendGo
	case weightedTotal >= ConsiderThreshold:
		return RecommendConsider
	default:
		return RecommendNoGo
	}
}

type Evaluation struct {
	Scores                   map[string]CriterionScore `json:"scores"`
	WeightedTotal            float64                   `json:"weighted_total"`
	InvestmentRecommendation string                    `json:"investment_recommendation"`
	KeyStrengths             []string                  `json:"key_strengths"`
	KeyConcerns              []string                  `json:"key_concerns"`
}

type Verification struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
}

type Idea struct {
	IdeaID           string           `json:"idea_id"`
	Title            string           `json:"title"`
	Summary          string           `json:"summary"`
	Challenge        string           `json:"challenge_opportunity"`
	Novelty          string           `json:"novelty_benefits_risks"`
	ResponsibleAI    string           `json:"responsible_ai"`
	AdditionalFiles  []AdditionalFile `json:"additional_files"`
	ExtractedContent string           `json:"extracted_content"`
	Classification   Classification   `json:"classification"`
	Evaluation       *Evaluation      `json:"evaluation,omitempty"`
	Verification     Verification     `json:"verification"`
	Status           IdeaStatus       `json:"status"`
	Error            string           `json:"error,omitempty"`
}

// HasPrototype reports whether any additional file was tagged as a
// prototype. The bonus it triggers applies once per idea regardless of how
// many files qualify.
func (i *Idea) HasPrototype() bool {
	for _, f := range i.AdditionalFiles {
		if f.ContentType == ContentPrototype {
			return true
		}
	}
	return false
}

// ConsolidatedText is the combined source text an evaluation sees, used by
// the verifier's near-empty-content heuristic.
func (i *Idea) ConsolidatedText() string {
	parts := []string{i.Title, i.Summary, i.Challenge, i.Novelty, i.ResponsibleAI, i.ExtractedContent}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
