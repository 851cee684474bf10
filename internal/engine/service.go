package engine

// service.go is the server-side batch variant of the engine: imports run as
// background jobs that report incremental processed_rows/row_count progress
// to a polling caller.
//
// The engine itself is a single synchronous pass; the job layer adds batch
// boundaries so a hosting caller can abort between batches, and keeps
// finished results around for a retention window so slow pollers can still
// fetch them.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rowforge/rowforge/internal/schema"
)

// Status is the lifecycle state of an import job. The engine only drives
// validation: validated means the result envelope is ready, importing is
// reserved for an external persistence collaborator, and completed/failed
// are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusValidating Status = "validating"
	StatusValidated  Status = "validated"
	StatusImporting  Status = "importing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Progress is the job-status surface consumed by a polling caller.
type Progress struct {
	JobID         string `json:"job_id"`
	Status        Status `json:"status"`
	ProcessedRows int    `json:"processed_rows"`
	RowCount      int    `json:"row_count"`
	ErrorCount    int    `json:"error_count"`
	Error         string `json:"error,omitempty"` // non-empty if Status is failed
}

// ServiceOptions configures the job service. Zero values fall back to
// defaults.
type ServiceOptions struct {
	MaxConcurrent int           // parallel jobs (default: 4)
	MaxWaitTime   time.Duration // wait for a job slot (default: 30s)
	BatchSize     int           // rows per batch between cancellation checks (default: 500)
	JobTimeout    time.Duration // maximum duration for one job (default: 10m)
	Retention     time.Duration // how long finished jobs stay queryable (default: 5m)
}

// Service runs imports as asynchronous jobs.
type Service struct {
	registry  *Registry
	limiter   *JobLimiter
	batchSize int
	timeout   time.Duration
	retention time.Duration

	mu   sync.RWMutex
	jobs map[string]*activeJob
}

type activeJob struct {
	ID        string
	Cancel    context.CancelFunc
	Result    *ImportResult
	Done      chan struct{}
	Listeners []chan Progress

	// ProgressMu guards Progress, Listeners, and Finished.
	ProgressMu sync.Mutex
	Progress   Progress
	Finished   bool
}

// NewService creates a job service. The registry supplies custom transform
// capabilities to every runner the service builds; it may be nil when no
// schema uses custom transforms.
func NewService(registry *Registry, opts ServiceOptions) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 10 * time.Minute
	}
	if opts.Retention <= 0 {
		opts.Retention = 5 * time.Minute
	}

	return &Service{
		registry:  registry,
		limiter:   NewJobLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		batchSize: opts.BatchSize,
		timeout:   opts.JobTimeout,
		retention: opts.Retention,
		jobs:      make(map[string]*activeJob),
	}
}

// Registry returns the custom transform registry the service was built with.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Limiter exposes the job limiter for shutdown draining.
func (s *Service) Limiter() *JobLimiter {
	return s.limiter
}

// Validate runs a full synchronous pass, for small datasets where the caller
// wants the result inline rather than a job to poll.
func (s *Service) Validate(sch *schema.Schema, rows []RawRow) (*ImportResult, error) {
	runner, err := NewRunner(sch, s.registry)
	if err != nil {
		return nil, err
	}
	return runner.Run(rows), nil
}

// StartImport begins an asynchronous import job and returns its id. A
// malformed schema fails here, before the job is created, since no row-level
// result can be trusted against it.
func (s *Service) StartImport(ctx context.Context, sch *schema.Schema, rows []RawRow) (string, error) {
	runner, err := NewRunner(sch, s.registry)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	jobID := uuid.New().String()
	jobCtx, cancel := context.WithTimeout(context.Background(), s.timeout)

	job := &activeJob{
		ID:     jobID,
		Cancel: cancel,
		Progress: Progress{
			JobID:    jobID,
			Status:   StatusPending,
			RowCount: len(rows),
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan Progress, 0),
	}

	s.mu.Lock()
	s.jobs[jobID] = job
	s.mu.Unlock()

	go s.processImport(jobCtx, job, runner, rows)

	return jobID, nil
}

// processImport runs one job to completion in batches.
func (s *Service) processImport(ctx context.Context, job *activeJob, runner *Runner, rows []RawRow) {
	start := time.Now()

	defer func() {
		job.closeListeners()
		close(job.Done)
		s.limiter.Release()
		s.cleanup(job.ID, s.retention)
	}()

	job.setStatus(StatusProcessing)
	job.setStatus(StatusValidating)

	run := runner.NewRun()

	for offset := 0; offset < len(rows); offset += s.batchSize {
		// Cancellation is checked between row batches only; a batch itself
		// is fast, non-blocking computation.
		if err := ctx.Err(); err != nil {
			reason := "cancelled"
			if errors.Is(err, context.DeadlineExceeded) {
				reason = "timed out"
			}
			job.fail(reason)
			slog.Info("import job aborted",
				"job_id", job.ID,
				"reason", reason,
				"processed_rows", run.Processed(),
			)
			return
		}

		end := offset + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		errorCount := 0
		for i := offset; i < end; i++ {
			row := run.ProcessRow(i, rows[i])
			errorCount += row.ErrorCount()
		}

		job.advance(run.Processed(), errorCount)
	}

	result := run.Result()
	job.Result = result
	job.setStatus(StatusValidated)
	job.setStatus(StatusCompleted)

	slog.Info("import job completed",
		"job_id", job.ID,
		"rows", result.NumRows,
		"invalid_rows", result.InvalidRowCount(),
		"success", result.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the job completes. Subscribing to a job that
// already finished yields the final progress once and a closed channel.
func (s *Service) SubscribeProgress(jobID string) (<-chan Progress, error) {
	job, err := s.job(jobID)
	if err != nil {
		return nil, err
	}

	job.ProgressMu.Lock()
	defer job.ProgressMu.Unlock()

	if job.Finished {
		ch := make(chan Progress, 1)
		ch <- job.Progress
		close(ch)
		return ch, nil
	}

	ch := make(chan Progress, 10)
	job.Listeners = append(job.Listeners, ch)
	// Send current progress immediately.
	select {
	case ch <- job.Progress:
	default:
	}

	return ch, nil
}

// Progress returns the current job progress without blocking.
func (s *Service) Progress(jobID string) (Progress, error) {
	job, err := s.job(jobID)
	if err != nil {
		return Progress{}, err
	}

	job.ProgressMu.Lock()
	defer job.ProgressMu.Unlock()
	return job.Progress, nil
}

// Result returns the result of a completed job.
// Blocks until the job completes if still in progress.
func (s *Service) Result(jobID string) (*ImportResult, error) {
	job, err := s.job(jobID)
	if err != nil {
		return nil, err
	}

	<-job.Done

	if job.Result == nil {
		job.ProgressMu.Lock()
		reason := job.Progress.Error
		job.ProgressMu.Unlock()
		return nil, fmt.Errorf("job %s failed: %s", jobID, reason)
	}
	return job.Result, nil
}

// Cancel aborts an in-progress job. The job stops at the next batch boundary.
func (s *Service) Cancel(jobID string) error {
	job, err := s.job(jobID)
	if err != nil {
		return err
	}

	job.Cancel()
	return nil
}

func (s *Service) job(jobID string) (*activeJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job, nil
}

// cleanup removes the job from tracking after a delay.
func (s *Service) cleanup(jobID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.jobs, jobID)
		s.mu.Unlock()
	})
}

func (job *activeJob) setStatus(status Status) {
	job.ProgressMu.Lock()
	job.Progress.Status = status
	job.notifyLocked()
	job.ProgressMu.Unlock()
}

func (job *activeJob) advance(processed, newErrors int) {
	job.ProgressMu.Lock()
	job.Progress.ProcessedRows = processed
	job.Progress.ErrorCount += newErrors
	job.notifyLocked()
	job.ProgressMu.Unlock()
}

func (job *activeJob) fail(reason string) {
	job.ProgressMu.Lock()
	job.Progress.Status = StatusFailed
	job.Progress.Error = reason
	job.notifyLocked()
	job.ProgressMu.Unlock()
}

// notifyLocked sends the current progress to all listeners.
// Callers must hold ProgressMu.
func (job *activeJob) notifyLocked() {
	for _, ch := range job.Listeners {
		select {
		case ch <- job.Progress:
		default:
			// Listener is slow, skip this update.
		}
	}
}

// closeListeners closes all listener channels and marks the job finished so
// late subscribers get a closed channel instead of one that never closes.
func (job *activeJob) closeListeners() {
	job.ProgressMu.Lock()
	defer job.ProgressMu.Unlock()

	for _, ch := range job.Listeners {
		close(ch)
	}
	job.Listeners = nil
	job.Finished = true
}
