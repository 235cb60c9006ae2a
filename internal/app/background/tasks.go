package background

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
)

// Task names dispatched to the durable queue.
const (
	TaskProcessCampaigns = "process-campaigns"
	TaskUpdatePrices     = "update-prices"
	TaskGenerateVideo    = "generate-video"
)

// UpdatePricesPayload distinguishes scheduler ticks from admin-triggered
// runs.
type UpdatePricesPayload struct {
	Manual bool `json:"manual"`
}

// GenerateVideoPayload names the video row the generation job works on.
type GenerateVideoPayload struct {
	VideoID string `json:"videoId"`
}

// Scheduler owns the recurring timers of the job process. It only
// enqueues; the queue worker executes. Dedup keys keep a slow tick from
// overlapping its own next invocation.
type Scheduler struct {
	Queue    *jobqueue.Queue
	Settings domain.SettingsRepository
	Logger   *zap.Logger

	CampaignTick    time.Duration
	SettingsRefresh time.Duration

	priceIntervalMinutes atomic.Int64
}

func NewScheduler(queue *jobqueue.Queue, settings domain.SettingsRepository, logger *zap.Logger, campaignTick, settingsRefresh time.Duration) *Scheduler {
	s := &Scheduler{
		Queue:           queue,
		Settings:        settings,
		Logger:          logger,
		CampaignTick:    campaignTick,
		SettingsRefresh: settingsRefresh,
	}
	s.priceIntervalMinutes.Store(10)
	return s
}

func (s *Scheduler) StartAll(ctx context.Context) {
	s.refreshPriceInterval(ctx)
	go s.startCampaignTicks(ctx)
	go s.startPriceTicks(ctx)
	go s.startSettingsRefresh(ctx)
}

func (s *Scheduler) startCampaignTicks(ctx context.Context) {
	ticker := time.NewTicker(s.CampaignTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.Queue.Enqueue(ctx, TaskProcessCampaigns, struct{}{},
				jobqueue.WithDedupKey(TaskProcessCampaigns),
				jobqueue.WithMaxAttempts(3),
			)
			if err != nil {
				s.Logger.Error("enqueueing campaign tick failed", zap.Error(err))
			}
		}
	}
}

// startPriceTicks fires on the interval stored in settings. The timer is
// re-armed after every run so interval changes picked up by the settings
// refresher apply to the next tick.
func (s *Scheduler) startPriceTicks(ctx context.Context) {
	timer := time.NewTimer(s.priceInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			err := s.Queue.Enqueue(ctx, TaskUpdatePrices, UpdatePricesPayload{Manual: false},
				jobqueue.WithDedupKey(TaskUpdatePrices),
				jobqueue.WithMaxAttempts(3),
			)
			if err != nil {
				s.Logger.Error("enqueueing price tick failed", zap.Error(err))
			}
			timer.Reset(s.priceInterval())
		}
	}
}

func (s *Scheduler) startSettingsRefresh(ctx context.Context) {
	ticker := time.NewTicker(s.SettingsRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshPriceInterval(ctx)
		}
	}
}

func (s *Scheduler) refreshPriceInterval(ctx context.Context) {
	pi, err := s.Settings.GetPriceInterval(ctx)
	if err != nil {
		s.Logger.Error("reading price interval setting failed", zap.Error(err))
		return
	}
	old := s.priceIntervalMinutes.Swap(int64(pi.Minutes))
	if old != int64(pi.Minutes) {
		s.Logger.Info("price interval changed",
			zap.Int64("old_minutes", old),
			zap.Int("new_minutes", pi.Minutes),
		)
	}
}

func (s *Scheduler) priceInterval() time.Duration {
	return time.Duration(s.priceIntervalMinutes.Load()) * time.Minute
}
