package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"
	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is one durable task row. The queue offers at-least-once delivery,
// bounded retry with backoff, and keyed deduplication: a non-empty dedup
// key admits at most one pending or running instance.
type Job struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"index;not null"`
	Payload     string `gorm:"type:jsonb"`
	DedupKey    string `gorm:"index"`
	Status      string `gorm:"index;not null"`
	Attempts    int
	MaxAttempts int
	RunAt       time.Time `gorm:"index"`
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Job) TableName() string { return "jobs" }

type Option func(*enqueueOptions)

type enqueueOptions struct {
	dedupKey    string
	maxAttempts int
	delay       time.Duration
}

// WithDedupKey serializes a recurring task: enqueueing is a no-op while a
// job with the same key is still pending or running.
func WithDedupKey(key string) Option {
	return func(o *enqueueOptions) { o.dedupKey = key }
}

func WithMaxAttempts(n int) Option {
	return func(o *enqueueOptions) { o.maxAttempts = n }
}

func WithDelay(d time.Duration) Option {
	return func(o *enqueueOptions) { o.delay = d }
}

// Queue is the Postgres-backed durable task queue shared by both
// processes.
type Queue struct {
	db    *gorm.DB
	clock clock.Clock
	newID func() string
}

func NewQueue(db *gorm.DB, clk clock.Clock) (*Queue, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("building job id generator: %w", err)
	}
	return &Queue{db: db, clock: clk, newID: gen}, nil
}

// Enqueue stores a task for the worker. Payload is marshaled to JSON.
func (q *Queue) Enqueue(ctx context.Context, name string, payload any, opts ...Option) error {
	o := enqueueOptions{maxAttempts: 3}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload for job %s: %w", name, err)
	}

	if o.dedupKey != "" {
		var count int64
		err := q.db.WithContext(ctx).Model(&Job{}).
			Where("dedup_key = ? AND status IN ?", o.dedupKey, []string{StatusPending, StatusRunning}).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("checking dedup key %s: %w", o.dedupKey, err)
		}
		if count > 0 {
			return nil
		}
	}

	job := &Job{
		ID:          q.newID(),
		Name:        name,
		Payload:     string(raw),
		DedupKey:    o.dedupKey,
		Status:      StatusPending,
		MaxAttempts: o.maxAttempts,
		RunAt:       q.clock.Now().Add(o.delay),
	}
	if err := q.db.WithContext(ctx).Create(job).Error; err != nil {
		// The partial unique index on (dedup_key) enforces the single
		// pending slot against races the count check cannot see.
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("enqueueing job %s: %w", name, err)
	}
	return nil
}

// claim picks the oldest due pending job and flips it to running with a
// conditional update, so two workers never run the same job.
func (q *Queue) claim(ctx context.Context) (*Job, error) {
	now := q.clock.Now()

	var job Job
	err := q.db.WithContext(ctx).
		Where("status = ? AND run_at <= ?", StatusPending, now).
		Order("run_at").
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting due job: %w", err)
	}

	res := q.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", job.ID, StatusPending).
		Updates(map[string]any{
			"status":   StatusRunning,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("claiming job %s: %w", job.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	job.Status = StatusRunning
	job.Attempts++
	return &job, nil
}

func (q *Queue) complete(ctx context.Context, job *Job) error {
	return q.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{"status": StatusCompleted, "last_error": ""}).Error
}

// fail either reschedules the job with linear backoff or, once attempts
// are exhausted, parks it as failed.
func (q *Queue) fail(ctx context.Context, job *Job, jobErr error, backoff time.Duration) error {
	updates := map[string]any{
		"last_error": jobErr.Error(),
	}
	if job.Attempts >= job.MaxAttempts {
		updates["status"] = StatusFailed
	} else {
		updates["status"] = StatusPending
		updates["run_at"] = q.clock.Now().Add(backoff * time.Duration(job.Attempts))
	}
	return q.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", job.ID).
		Updates(updates).Error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
