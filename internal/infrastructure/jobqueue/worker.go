package jobqueue

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
)

// HandlerFunc executes one job. A returned error reschedules the job until
// its attempt budget runs out.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Worker polls the queue and dispatches claimed jobs to registered
// handlers. Ticks run to completion before the next poll.
type Worker struct {
	queue        *Queue
	handlers     map[string]HandlerFunc
	pollInterval time.Duration
	retryBackoff time.Duration
	logger       *zap.Logger
	metrics      *metrics.DisplayMetrics
}

func NewWorker(queue *Queue, pollInterval, retryBackoff time.Duration, logger *zap.Logger, m *metrics.DisplayMetrics) *Worker {
	return &Worker{
		queue:        queue,
		handlers:     make(map[string]HandlerFunc),
		pollInterval: pollInterval,
		retryBackoff: retryBackoff,
		logger:       logger,
		metrics:      m,
	}
}

func (w *Worker) Register(name string, handler HandlerFunc) {
	w.handlers[name] = handler
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain claims and runs jobs until the queue has nothing due.
func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := w.queue.claim(ctx)
		if err != nil {
			w.logger.Error("claiming job failed", zap.Error(err))
			return
		}
		if job == nil {
			return
		}
		w.runOne(ctx, job)
	}
}

func (w *Worker) runOne(ctx context.Context, job *Job) {
	handler, ok := w.handlers[job.Name]
	if !ok {
		w.logger.Error("no handler registered for job", zap.String("name", job.Name))
		_ = w.queue.fail(ctx, job, errUnknownJob(job.Name), w.retryBackoff)
		w.metrics.RecordJob(job.Name, "unknown")
		return
	}

	if err := handler(ctx, json.RawMessage(job.Payload)); err != nil {
		w.logger.Error("job failed",
			zap.String("name", job.Name),
			zap.String("job_id", job.ID),
			zap.Int("attempt", job.Attempts),
			zap.Int("max_attempts", job.MaxAttempts),
			zap.Error(err),
		)
		w.metrics.RecordTickError(job.Name)
		if failErr := w.queue.fail(ctx, job, err, w.retryBackoff); failErr != nil {
			w.logger.Error("recording job failure", zap.String("job_id", job.ID), zap.Error(failErr))
		}
		w.metrics.RecordJob(job.Name, "failed")
		return
	}

	if err := w.queue.complete(ctx, job); err != nil {
		w.logger.Error("recording job completion", zap.String("job_id", job.ID), zap.Error(err))
	}
	w.metrics.RecordJob(job.Name, "completed")
}

type errUnknownJob string

func (e errUnknownJob) Error() string { return "no handler registered for job " + string(e) }
