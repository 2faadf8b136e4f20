package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/config"
	"alfredoptarigan/idea-evaluator/internal/llm"
	"alfredoptarigan/idea-evaluator/internal/models"
	"alfredoptarigan/idea-evaluator/internal/repositories"
	"alfredoptarigan/idea-evaluator/internal/store"
)

// PipelineService accepts evaluation jobs and runs each one on its own
// orchestrator in the background. Results and progress stay queryable for
// as long as the process lives; the database row outlives it.
type PipelineService interface {
	StartJob(req models.EvaluateRequest) (*models.EvaluateResponse, error)
	Progress(id uuid.UUID) (*models.Progress, error)
	Results(id uuid.UUID) (*models.ResultResponse, error)
	StopJob(id uuid.UUID) error
	Shutdown()
}

type pipelineService struct {
	cfg      *config.Config
	provider llm.Provider
	taxonomy models.Taxonomy
	jobRepo  repositories.JobRepository
	logger   *zap.SugaredLogger

	mu     sync.Mutex
	runs   map[uuid.UUID]*pipelineRun
	wg     sync.WaitGroup
}

type pipelineRun struct {
	orchestrator *Orchestrator
	store        store.ResultStore
	cancel       context.CancelFunc
}

func NewPipelineService(cfg *config.Config, provider llm.Provider, taxonomy models.Taxonomy, jobRepo repositories.JobRepository) PipelineService {
	return &pipelineService{
		cfg:      cfg,
		provider: provider,
		taxonomy: taxonomy,
		jobRepo:  jobRepo,
		runs:     make(map[uuid.UUID]*pipelineRun),
		logger:   zap.S().Named("pipeline"),
	}
}

// StartJob implements PipelineService. Input loading and rubric validation
// happen synchronously so the caller gets a clear rejection; the pipeline
// itself runs in the background.
func (s *pipelineService) StartJob(req models.EvaluateRequest) (*models.EvaluateResponse, error) {
	if err := models.ValidateRubric(req.Rubric); err != nil {
		return nil, err
	}

	ideas, err := LoadIdeas(req.IdeasPath)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, &models.FatalJobError{Reason: "no ideas to process"}
	}

	jobID := uuid.New()
	outputPath := filepath.Join(s.cfg.Storage.DataDir, fmt.Sprintf("results-%s.json", jobID))

	resultStore, err := store.NewFileStore(outputPath)
	if err != nil {
		return nil, err
	}

	if s.jobRepo != nil {
		job := &models.EvaluationJob{
			ID:         jobID,
			Name:       req.Name,
			IdeasPath:  req.IdeasPath,
			FilesDir:   req.FilesDir,
			OutputPath: outputPath,
			Status:     models.JobPending,
			TotalCount: len(ideas),
		}
		if err := s.jobRepo.Create(job); err != nil {
			return nil, err
		}
	}

	provider := llm.WithTimeout(s.provider, s.cfg.Worker.RequestTimeout)
	describer, _ := provider.(llm.MediaDescriber)
	retries := s.cfg.Worker.RetryMaxAttempts
	delay := s.cfg.Worker.RetryInitialDelay

	extractor := NewContentExtractor(describer, retries, delay)
	classifier := NewClassifier(provider, s.taxonomy, retries, delay)
	evaluator := NewEvaluator(provider, retries, delay)
	processor := NewIdeaProcessor(extractor, classifier, evaluator, NewVerifier(), req.FilesDir)

	orchestrator := NewOrchestrator(processor, resultStore, s.jobRepo, jobID, s.cfg.Worker.Concurrency)

	ctx, cancel := context.WithCancel(context.Background())
	run := &pipelineRun{orchestrator: orchestrator, store: resultStore, cancel: cancel}

	s.mu.Lock()
	s.runs[jobID] = run
	s.mu.Unlock()

	rubric := req.Rubric
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := orchestrator.Run(ctx, ideas, rubric); err != nil {
			s.logger.Errorf("job %s finished with error: %v", jobID, err)
		}
	}()

	s.logger.Infof("📥 Job %s accepted with %d ideas", jobID, len(ideas))
	return &models.EvaluateResponse{ID: jobID.String(), Status: string(models.JobPending)}, nil
}

// Progress implements PipelineService. Jobs from earlier process lifetimes
// fall back to the database row.
func (s *pipelineService) Progress(id uuid.UUID) (*models.Progress, error) {
	s.mu.Lock()
	run, ok := s.runs[id]
	s.mu.Unlock()

	if ok {
		progress := run.orchestrator.Progress()
		return &progress, nil
	}

	if s.jobRepo == nil {
		return nil, fmt.Errorf("job not found")
	}
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &models.Progress{
		TotalIdeas:             job.TotalCount,
		ProcessedIdeas:         job.ProcessedCount,
		Status:                 job.Status,
		EstimatedTimeRemaining: "unknown",
	}, nil
}

// Results implements PipelineService.
func (s *pipelineService) Results(id uuid.UUID) (*models.ResultResponse, error) {
	s.mu.Lock()
	run, ok := s.runs[id]
	s.mu.Unlock()

	if ok {
		status, errMsg := run.orchestrator.Status()
		resp := &models.ResultResponse{
			ID:      id.String(),
			Status:  string(status),
			Results: run.store.Records(),
		}
		if errMsg != "" {
			resp.ErrorMessage = &errMsg
		}
		return resp, nil
	}

	if s.jobRepo == nil {
		return nil, fmt.Errorf("job not found")
	}
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	resultStore, err := store.NewFileStore(job.OutputPath)
	if err != nil {
		return nil, err
	}
	return &models.ResultResponse{
		ID:           id.String(),
		Status:       string(job.Status),
		Results:      resultStore.Records(),
		ErrorMessage: job.ErrorMessage,
	}, nil
}

// StopJob implements PipelineService.
func (s *pipelineService) StopJob(id uuid.UUID) error {
	s.mu.Lock()
	run, ok := s.runs[id]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("job not found")
	}
	run.orchestrator.Stop()
	return nil
}

// Shutdown stops every live run and waits for workers to drain.
func (s *pipelineService) Shutdown() {
	s.mu.Lock()
	for _, run := range s.runs {
		run.orchestrator.Stop()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		s.logger.Warn("shutdown timed out waiting for running jobs")
	}
}
