package models

// MissingSentinel is the explicit placeholder written for any schema field
// that could not be populated. Fields are never silently omitted.
const MissingSentinel = "missing"

type FileRecord struct {
	Reference        string           `json:"reference"`
	ContentType      ContentType      `json:"content_type"`
	ExtractionStatus ExtractionStatus `json:"extraction_status"`
}

// OutputRecord is the persisted, schema-conformant projection of an Idea.
// Every declared field is always present in its JSON form.
type OutputRecord struct {
	IdeaID                   string                    `json:"idea_id"`
	Title                    string                    `json:"title"`
	Summary                  string                    `json:"summary"`
	Challenge                string                    `json:"challenge_opportunity"`
	Novelty                  string                    `json:"novelty_benefits_risks"`
	ResponsibleAI            string                    `json:"responsible_ai"`
	AdditionalFiles          []FileRecord              `json:"additional_files"`
	ExtractedContent         string                    `json:"extracted_content"`
	PrimaryTheme             string                    `json:"primary_theme"`
	ThemeConfidence          float64                   `json:"theme_confidence"`
	PrimaryIndustry          string                    `json:"primary_industry"`
	IndustryConfidence       float64                   `json:"industry_confidence"`
	Scores                   map[string]CriterionScore `json:"scores"`
	WeightedTotal            float64                   `json:"weighted_total"`
	InvestmentRecommendation string                    `json:"investment_recommendation"`
	KeyStrengths             []string                  `json:"key_strengths"`
	KeyConcerns              []string                  `json:"key_concerns"`
	VerificationPassed       bool                      `json:"verification_passed"`
	VerificationWarnings     []string                  `json:"verification_warnings"`
	Status                   IdeaStatus                `json:"status"`
	Error                    string                    `json:"error"`
}

func orMissing(s string) string {
	if s == "" {
		return MissingSentinel
	}
	return s
}

// NewOutputRecord projects an idea onto the output schema, repairing any
// absent field with the explicit missing sentinel. The rubric guarantees a
// score entry per active criterion even when evaluation never produced one.
func NewOutputRecord(idea *Idea, rubric []RubricItem) OutputRecord {
	rec := OutputRecord{
		IdeaID:               orMissing(idea.IdeaID),
		Title:                orMissing(idea.Title),
		Summary:              orMissing(idea.Summary),
		Challenge:            orMissing(idea.Challenge),
		Novelty:              orMissing(idea.Novelty),
		ResponsibleAI:        orMissing(idea.ResponsibleAI),
		AdditionalFiles:      make([]FileRecord, 0, len(idea.AdditionalFiles)),
		ExtractedContent:     idea.ExtractedContent,
		PrimaryTheme:         orMissing(idea.Classification.PrimaryTheme),
		ThemeConfidence:      idea.Classification.ThemeConfidence,
		PrimaryIndustry:      orMissing(idea.Classification.PrimaryIndustry),
		IndustryConfidence:   idea.Classification.IndustryConfidence,
		Scores:               make(map[string]CriterionScore, len(rubric)),
		KeyStrengths:         []string{},
		KeyConcerns:          []string{},
		VerificationPassed:   idea.Verification.Passed,
		VerificationWarnings: idea.Verification.Warnings,
		Status:               idea.Status,
		Error:                idea.Error,
	}

	if rec.VerificationWarnings == nil {
		rec.VerificationWarnings = []string{}
	}

	for _, f := range idea.AdditionalFiles {
		rec.AdditionalFiles = append(rec.AdditionalFiles, FileRecord{
			Reference:        f.Reference,
			ContentType:      f.ContentType,
			ExtractionStatus: f.ExtractionStatus,
		})
	}

	if idea.Evaluation != nil {
		for key, score := range idea.Evaluation.Scores {
			rec.Scores[key] = score
		}
		rec.WeightedTotal = idea.Evaluation.WeightedTotal
		rec.InvestmentRecommendation = orMissing(idea.Evaluation.InvestmentRecommendation)
		if idea.Evaluation.KeyStrengths != nil {
			rec.KeyStrengths = idea.Evaluation.KeyStrengths
		}
		if idea.Evaluation.KeyConcerns != nil {
			rec.KeyConcerns = idea.Evaluation.KeyConcerns
		}
	} else {
		rec.InvestmentRecommendation = MissingSentinel
	}

	// Every active rubric key must appear, parse-failed when never scored.
	for _, item := range rubric {
		if _, ok := rec.Scores[item.Key]; !ok {
			rec.Scores[item.Key] = CriterionScore{
				Justification:    ParsingFailed,
				InsufficientInfo: true,
				Parsed:           false,
			}
		}
	}

	return rec
}
