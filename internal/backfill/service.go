package backfill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/logging"
)

// Importer runs a single import. *Runner satisfies it.
type Importer interface {
	Run(ctx context.Context, req Request, reporter Reporter) (Result, error)
}

// CompletionHook is called after a job finishes successfully.
type CompletionHook func(ctx context.Context, job *Job, result Result)

// Service queues import jobs and runs them one at a time.
type Service struct {
	importer Importer
	onDone   CompletionHook

	queue        chan string
	historyLimit int

	mu     sync.RWMutex
	jobs   map[string]*Job
	order  []string
	active string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger zerolog.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(importer Importer, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		importer:     importer,
		queue:        make(chan string, queueSize),
		historyLimit: 10,
		jobs:         make(map[string]*Job),
		ctx:          ctx,
		cancel:       cancel,
		logger:       logging.Component("backfill"),
	}
}

// OnComplete registers a hook run after each successful job.
func (s *Service) OnComplete(hook CompletionHook) {
	s.onDone = hook
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for the running job to return.
// Queued jobs are marked cancelled.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.Status == JobStatusQueued {
			job.Status = JobStatusCancelled
			job.StatusMessage = "Service shut down"
		}
	}
	return nil
}

// Enqueue validates req and queues a job for it.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobID:         uuid.NewString(),
		PlayerID:      req.PlayerID,
		Season:        req.Season,
		Source:        req.Source,
		BBRefSlug:     req.BBRefSlug,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: runSteps,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, errors.New("backfill service stopped")
	case s.queue <- job.JobID:
	default:
		return nil, ErrQueueFull
	}
	s.jobs[job.JobID] = job
	s.order = append(s.order, job.JobID)
	s.trimLocked()

	s.logger.Info().Str("job_id", job.JobID).Int("player_id", job.PlayerID).
		Str("season", job.Season).Str("source", job.Source).Msg("job queued")
	return job.Copy(), nil
}

// GetJob returns a copy of a known job.
func (s *Service) GetJob(jobID string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	return job.Copy(), ok
}

// GetStatus returns the running job, the queue depth and recent history,
// newest first.
func (s *Service) GetStatus() *StatusSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &StatusSummary{Queued: len(s.queue)}
	if s.active != "" {
		summary.ActiveJob = s.jobs[s.active].Copy()
	}
	for i := len(s.order) - 1; i >= 0; i-- {
		summary.History = append(summary.History, s.jobs[s.order[i]].Copy())
	}
	return summary
}

// trimLocked drops the oldest finished jobs beyond the history limit.
func (s *Service) trimLocked() {
	for len(s.order) > s.historyLimit {
		oldest := s.jobs[s.order[0]]
		if oldest.Status == JobStatusQueued || oldest.Status == JobStatusRunning {
			return
		}
		delete(s.jobs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case jobID := <-s.queue:
			s.executeJob(jobID)
		}
	}
}

func (s *Service) executeJob(jobID string) {
	var req Request
	s.update(jobID, func(job *Job) {
		now := time.Now().UTC()
		job.Status = JobStatusRunning
		job.StatusMessage = "Starting job..."
		job.StartedAt = &now
		s.active = jobID
		req = Request{PlayerID: job.PlayerID, Season: job.Season, Source: job.Source, BBRefSlug: job.BBRefSlug}
	})
	defer s.update(jobID, func(*Job) { s.active = "" })

	reporter := &jobReporter{svc: s, jobID: jobID}
	result, err := s.importer.Run(s.ctx, req, reporter)
	if err != nil {
		status := JobStatusFailed
		if errors.Is(err, context.Canceled) {
			status = JobStatusCancelled
		}
		s.finish(jobID, status, "Job failed", err)
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("job failed")
		return
	}

	s.finish(jobID, JobStatusCompleted, "Job completed", nil)
	s.logger.Info().Str("job_id", jobID).Int("shots", result.ShotsImported).Msg("✓ job completed")
	if s.onDone != nil {
		if job, ok := s.GetJob(jobID); ok {
			s.onDone(s.ctx, job, result)
		}
	}
}

func (s *Service) finish(jobID string, status JobStatus, msg string, err error) {
	s.update(jobID, func(job *Job) {
		now := time.Now().UTC()
		job.Status = status
		job.StatusMessage = msg
		job.CompletedAt = &now
		if err != nil {
			job.LastError = err.Error()
		}
	})
}

func (s *Service) update(jobID string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		fn(job)
	}
}

type jobReporter struct {
	svc   *Service
	jobID string
}

func (r *jobReporter) OnJobStart(req Request, total int) {
	r.svc.update(r.jobID, func(job *Job) {
		job.ProgressCurrent = 0
		job.ProgressTotal = total
		job.StatusMessage = fmt.Sprintf("Importing player %d %s", req.PlayerID, req.Season)
	})
}

func (r *jobReporter) OnProgress(message string, current int) {
	r.svc.update(r.jobID, func(job *Job) {
		job.ProgressCurrent = current
		job.StatusMessage = message
	})
}

func (r *jobReporter) OnJobComplete(result Result) {
	r.svc.update(r.jobID, func(job *Job) {
		job.ProgressCurrent = job.ProgressTotal
		job.ShotsImported = result.ShotsImported
	})
}

func (r *jobReporter) OnJobError(err error) {
	r.svc.logger.Warn().Err(err).Str("job_id", r.jobID).Msg("job error")
}
