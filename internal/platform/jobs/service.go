package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const JobRecompute = "balances_recompute"

var ErrQueueFull = errors.New("job queue full")

// RunStore records job executions. It is optional.
type RunStore interface {
	Start(ctx context.Context, id, jobType, subject string) error
	Finish(ctx context.Context, id, status string, details any) error
}

type Service struct {
	runs    RunStore
	log     *zap.Logger
	queue   chan job
	wg      sync.WaitGroup
	onEvent func(jobType string, err error)
}

type job struct {
	Type    string
	Subject string
	Run     func(context.Context) (any, error)
}

func New(runs RunStore, logger *zap.Logger, size int) *Service {
	if size <= 0 {
		size = 128
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runs: runs, log: logger, queue: make(chan job, size)}
}

// OnComplete registers a hook called after every run, used for metrics.
func (s *Service) OnComplete(fn func(jobType string, err error)) {
	s.onEvent = fn
}

// Start launches the worker goroutine and returns at once. The worker stops
// when ctx is done, dropping whatever is still queued; Wait blocks until it
// has exited.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.worker(ctx)
}

func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType, subject string, run func(context.Context) (any, error)) error {
	select {
	case s.queue <- job{Type: jobType, Subject: subject, Run: run}:
		return nil
	default:
		s.log.Warn("job queue full", zap.String("jobType", jobType), zap.String("subject", subject))
		return ErrQueueFull
	}
}

// RunNow runs a job synchronously on the caller's goroutine, recording it
// like a queued run.
func (s *Service) RunNow(ctx context.Context, jobType, subject string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Subject: subject, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.log.Warn("job run failed", zap.String("jobType", j.Type), zap.String("subject", j.Subject), zap.Error(err))
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := uuid.NewString()
	started := time.Now()
	if s.runs != nil {
		if err := s.runs.Start(ctx, runID, j.Type, j.Subject); err != nil {
			s.log.Warn("job run insert failed", zap.Error(err))
			runID = ""
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.runs != nil && runID != "" {
		if updErr := s.runs.Finish(ctx, runID, status, details); updErr != nil {
			s.log.Warn("job run update failed", zap.Error(updErr))
		}
	}
	s.log.Debug("job finished",
		zap.String("jobType", j.Type),
		zap.String("subject", j.Subject),
		zap.String("status", status),
		zap.Duration("duration", time.Since(started)),
	)
	if s.onEvent != nil {
		s.onEvent(j.Type, err)
	}
	return details, err
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Start(ctx context.Context, id, jobType, subject string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_runs (id, job_type, subject, status)
    VALUES ($1,$2,$3,$4)
  `, id, jobType, subject, "running")
	return err
}

func (s *Store) Finish(ctx context.Context, id, status string, details any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, id)
	return err
}
