package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/idea-evaluator/internal/models"
	"alfredoptarigan/idea-evaluator/internal/repositories"
	"alfredoptarigan/idea-evaluator/internal/store"
)

// DefaultConcurrency is the worker pool size when none is configured.
const DefaultConcurrency = 8

// Orchestrator fans a list of ideas out to a bounded worker pool, persists
// every finished record through the result store, and tracks progress.
// Ideas already completed in the store are skipped, so re-running the same
// job resumes instead of re-evaluating.
type Orchestrator struct {
	processor   IdeaProcessor
	resultStore store.ResultStore
	jobRepo     repositories.JobRepository
	jobID       uuid.UUID
	concurrency int
	logger      *zap.SugaredLogger

	total           atomic.Int64
	processed       atomic.Int64
	persistFailures atomic.Int64
	startedAt       time.Time

	mu             sync.Mutex
	status         models.JobStatus
	errorMsg       string
	lastPersistErr string

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewOrchestrator wires an orchestrator for one job. jobRepo may be nil
// when no database mirror is wanted.
func NewOrchestrator(processor IdeaProcessor, resultStore store.ResultStore, jobRepo repositories.JobRepository, jobID uuid.UUID, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		processor:   processor,
		resultStore: resultStore,
		jobRepo:     jobRepo,
		jobID:       jobID,
		concurrency: concurrency,
		status:      models.JobPending,
		stopChan:    make(chan struct{}),
		logger:      zap.S().Named("orchestrator").With("job_id", jobID.String()),
	}
}

// Run processes every idea through the pool and blocks until all workers
// drain. Validation failures surface as FatalJobError before any worker
// starts.
func (o *Orchestrator) Run(ctx context.Context, ideas []models.Idea, rubric []models.RubricItem) error {
	if err := o.validate(ideas, rubric); err != nil {
		o.fail(err.Error())
		return err
	}

	completed := o.resultStore.CompletedIDs()
	pending := make([]models.Idea, 0, len(ideas))
	skipped := 0
	for _, idea := range ideas {
		if completed[idea.IdeaID] {
			skipped++
			continue
		}
		pending = append(pending, idea)
	}

	o.total.Store(int64(len(ideas)))
	o.processed.Store(int64(skipped))
	o.startedAt = time.Now()
	o.setStatus(models.JobProcessing)
	o.mirrorProgress()

	if skipped > 0 {
		o.logger.Infof("⏩ Resuming: %d of %d ideas already completed", skipped, len(ideas))
	}
	o.logger.Infof("🚀 Starting pipeline with %d workers for %d ideas", o.concurrency, len(pending))

	jobs := make(chan models.Idea)
	for i := 0; i < o.concurrency; i++ {
		o.wg.Add(1)
		go o.runWorker(ctx, i+1, jobs, rubric)
	}

feed:
	for _, idea := range pending {
		select {
		case jobs <- idea:
		case <-o.stopChan:
			break feed
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	o.wg.Wait()

	if n := o.persistFailures.Load(); n > 0 {
		o.mu.Lock()
		last := o.lastPersistErr
		o.mu.Unlock()
		msg := fmt.Sprintf("failed to persist %d idea record(s), last error: %s", n, last)
		o.fail(msg)
		return fmt.Errorf("pipeline finished with unpersisted records: %s", last)
	}

	if o.processed.Load() < o.total.Load() {
		o.fail("stopped before all ideas were processed")
		return fmt.Errorf("pipeline stopped before completion")
	}

	o.setStatus(models.JobCompleted)
	o.mirrorStatus(models.JobCompleted)
	o.logger.Infof("✅ Pipeline completed: %d ideas processed", o.total.Load())
	return nil
}

// Stop requests a halt. Workers finish the idea they hold; nothing new is
// handed out. Safe to call more than once.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.logger.Info("🛑 Stop requested")
		close(o.stopChan)
	})
}

// Progress returns a point-in-time snapshot with a naive remaining-time
// estimate based on throughput so far.
func (o *Orchestrator) Progress() models.Progress {
	o.mu.Lock()
	status := o.status
	o.mu.Unlock()

	total := int(o.total.Load())
	processed := int(o.processed.Load())

	eta := "unknown"
	if status == models.JobCompleted {
		eta = "0s"
	} else if processed > 0 && total > processed && !o.startedAt.IsZero() {
		perIdea := time.Since(o.startedAt) / time.Duration(processed)
		eta = (perIdea * time.Duration(total-processed)).Round(time.Second).String()
	}

	return models.Progress{
		TotalIdeas:             total,
		ProcessedIdeas:         processed,
		Status:                 status,
		EstimatedTimeRemaining: eta,
	}
}

// Status returns the job status and error message, if any.
func (o *Orchestrator) Status() (models.JobStatus, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status, o.errorMsg
}

func (o *Orchestrator) validate(ideas []models.Idea, rubric []models.RubricItem) error {
	if len(ideas) == 0 {
		return &models.FatalJobError{Reason: "no ideas to process"}
	}
	if err := models.ValidateRubric(rubric); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) runWorker(ctx context.Context, workerID int, jobs <-chan models.Idea, rubric []models.RubricItem) {
	defer o.wg.Done()

	for idea := range jobs {
		o.logger.Debugf("👷 Worker #%d picked up idea %s", workerID, idea.IdeaID)

		rec := o.processor.Process(ctx, &idea, rubric)
		if err := o.resultStore.Upsert(rec); err != nil {
			o.logger.Errorf("❌ Worker #%d failed to persist idea %s: %v", workerID, idea.IdeaID, err)
			o.persistFailures.Add(1)
			o.mu.Lock()
			o.lastPersistErr = err.Error()
			o.mu.Unlock()
			continue
		}

		o.processed.Add(1)
		o.mirrorProgress()
	}
}

func (o *Orchestrator) setStatus(status models.JobStatus) {
	o.mu.Lock()
	o.status = status
	o.mu.Unlock()
}

func (o *Orchestrator) fail(msg string) {
	o.mu.Lock()
	o.status = models.JobFailed
	o.errorMsg = msg
	o.mu.Unlock()

	if o.jobRepo != nil {
		if err := o.jobRepo.UpdateError(o.jobID, msg); err != nil {
			o.logger.Warnf("failed to mirror job error: %v", err)
		}
	}
}

func (o *Orchestrator) mirrorProgress() {
	if o.jobRepo == nil {
		return
	}
	if err := o.jobRepo.UpdateProgress(o.jobID, int(o.processed.Load()), int(o.total.Load())); err != nil {
		o.logger.Warnf("failed to mirror job progress: %v", err)
	}
}

func (o *Orchestrator) mirrorStatus(status models.JobStatus) {
	if o.jobRepo == nil {
		return
	}
	if err := o.jobRepo.UpdateStatus(o.jobID, status); err != nil {
		o.logger.Warnf("failed to mirror job status: %v", err)
	}
}
