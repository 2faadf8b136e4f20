package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/models"
)

// IdeaProcessor runs one idea through the full pipeline: extraction,
// classification, evaluation, verification. Extraction and classification
// degrade gracefully; only a permanent evaluation failure marks the idea
// failed. Either way a complete output record comes back.
type IdeaProcessor interface {
	Process(ctx context.Context, idea *models.Idea, rubric []models.RubricItem) models.OutputRecord
}

type ideaProcessor struct {
	extractor  ContentExtractor
	classifier Classifier
	evaluator  Evaluator
	verifier   Verifier
	filesDir   string
	logger     *zap.SugaredLogger
}

func NewIdeaProcessor(extractor ContentExtractor, classifier Classifier, evaluator Evaluator, verifier Verifier, filesDir string) IdeaProcessor {
	return &ideaProcessor{
		extractor:  extractor,
		classifier: classifier,
		evaluator:  evaluator,
		verifier:   verifier,
		filesDir:   filesDir,
		logger:     zap.S().Named("processor"),
	}
}

// Process implements IdeaProcessor.
func (p *ideaProcessor) Process(ctx context.Context, idea *models.Idea, rubric []models.RubricItem) models.OutputRecord {
	p.logger.Infof("🚀 Processing idea %s (%s)", idea.IdeaID, idea.Title)

	idea.Status = models.IdeaExtracting
	p.extractor.ExtractIdeaFiles(ctx, idea, p.filesDir)

	idea.Status = models.IdeaClassifying
	idea.Classification = p.classifier.Classify(ctx, idea)

	idea.Status = models.IdeaEvaluating
	eval, err := p.evaluator.Evaluate(ctx, idea, rubric)
	if err != nil {
		p.logger.Errorf("❌ Idea %s failed: %v", idea.IdeaID, err)
		idea.Status = models.IdeaFailed
		idea.Error = err.Error()
		return models.NewOutputRecord(idea, rubric)
	}
	idea.Evaluation = eval

	idea.Status = models.IdeaVerifying
	idea.Verification = p.verifier.Verify(idea, rubric)

	idea.Status = models.IdeaCompleted
	p.logger.Infof("✅ Idea %s completed with score %.2f", idea.IdeaID, eval.WeightedTotal)
	return models.NewOutputRecord(idea, rubric)
}
