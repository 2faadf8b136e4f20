package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/idea-evaluator/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const classificationSystemPrompt = `You are an expert classifier for an innovation idea evaluation program.
You assign every idea exactly one primary theme and one primary industry from closed lists.
You must never invent a label: if nothing fits well, pick the closest entry and lower your confidence.
Return ONLY valid JSON.`

// BuildClassificationPrompts creates the system and user prompts for the
// closed-taxonomy classification call.
func (pb *PromptBuilder) BuildClassificationPrompts(taxonomy models.Taxonomy, ideaText string) (string, string) {
	var sb strings.Builder

	sb.WriteString("ALLOWED THEMES (choose exactly one as primary_theme):\n")
	for i, theme := range taxonomy.Themes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, theme)
	}
	sb.WriteString("\nALLOWED INDUSTRIES (choose exactly one as primary_industry):\n")
	for i, industry := range taxonomy.Industries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, industry)
	}

	sb.WriteString(`
Classify the idea below. Return your response in the following JSON format:
{
  "primary_theme": "<one of the allowed themes, verbatim>",
  "theme_confidence": <0.0-1.0>,
  "primary_industry": "<one of the allowed industries, verbatim>",
  "industry_confidence": <0.0-1.0>
}

IDEA:
`)
	sb.WriteString(truncate(ideaText, 8000))

	return classificationSystemPrompt, sb.String()
}

const evaluationSystemPrompt = `You are an expert evaluator for an innovation idea program.
Score each rubric criterion with an INTEGER from 1 to 10.
When the available material is inadequate to score a criterion confidently, still score it but set insufficient_info to true.
Be objective; justify every score with specifics from the submission. Return ONLY valid JSON.`

// BuildEvaluationPrompts creates the system and user prompts for the rubric
// evaluation call. The weighted-total formula is spelled out for the model,
// but the pipeline always recomputes the total locally.
func (pb *PromptBuilder) BuildEvaluationPrompts(idea *models.Idea, rubric []models.RubricItem) (string, string) {
	var sb strings.Builder

	sb.WriteString("RUBRICS AND WEIGHTS (score each criterion 1-10, use exact weights below):\n")
	for _, item := range rubric {
		fmt.Fprintf(&sb, "- %s (key: %s, weight: %.2f = %.1f%%): %s", item.Name, item.Key, item.Weight, item.Weight*100, item.Description)
		if item.ScaleAnchor != "" {
			fmt.Fprintf(&sb, " Scale anchor: %s", item.ScaleAnchor)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nWEIGHTED TOTAL CALCULATION:\nweighted_total = ")
	terms := make([]string, 0, len(rubric))
	for _, item := range rubric {
		terms = append(terms, fmt.Sprintf("(%.2f x %s_score)", item.Weight, item.Key))
	}
	sb.WriteString(strings.Join(terms, " + "))

	sb.WriteString(`

Return your response in the following JSON format:
{
  "scores": {
`)
	for i, item := range rubric {
		fmt.Fprintf(&sb, "    %q: {\"score\": <1-10 integer>, \"justification\": \"<2-3 sentences>\", \"insufficient_info\": <true|false>}", item.Key)
		if i < len(rubric)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(`  },
  "weighted_total": <calculated weighted sum>,
  "investment_recommendation": "<go | consider-with-mitigations | no-go>",
  "key_strengths": ["<strength>", ...],
  "key_concerns": ["<concern>", ...]
}

IDEA DETAILS:
`)
	fmt.Fprintf(&sb, "Title: %s\n", truncate(idea.Title, 500))
	fmt.Fprintf(&sb, "Summary: %s\n", truncate(idea.Summary, 2000))
	fmt.Fprintf(&sb, "Challenge/Opportunity: %s\n", truncate(idea.Challenge, 2000))
	fmt.Fprintf(&sb, "Novelty/Benefits/Risks: %s\n", truncate(idea.Novelty, 2000))
	fmt.Fprintf(&sb, "Responsible AI: %s\n", truncate(idea.ResponsibleAI, 1000))
	fmt.Fprintf(&sb, "Primary Theme: %s\n", idea.Classification.PrimaryTheme)
	fmt.Fprintf(&sb, "Primary Industry: %s\n", idea.Classification.PrimaryIndustry)
	fmt.Fprintf(&sb, "\nExtracted Content from Files:\n%s\n", truncate(idea.ExtractedContent, 5000))

	return evaluationSystemPrompt, sb.String()
}

// BuildFileDescriptionPrompt creates the prompt for the LLM-assisted
// description pass over files that cannot be parsed locally.
func (pb *PromptBuilder) BuildFileDescriptionPrompt(fileName string) string {
	return fmt.Sprintf(`You are analyzing a file named %q submitted alongside an innovation idea.
Describe what it shows in detail. If it depicts a working application, demo, UI mockup or
other evidence of a built solution, classify it as a prototype; otherwise classify it as a document.

Return your response in the following JSON format:
{
  "content": "<detailed description of what the file shows>",
  "content_type": "<prototype | document>"
}

Return ONLY valid JSON.`, fileName)
}
