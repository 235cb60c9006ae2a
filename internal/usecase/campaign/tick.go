package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

// ProcessTick advances the campaign state machine by one step. It runs
// every few seconds under a single-slot dedup key, so at most one tick is
// ever in flight.
func (uc *Usecase) ProcessTick(ctx context.Context) error {
	now := uc.clock.Now()

	active, err := uc.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return fmt.Errorf("querying active campaign: %w", err)
	}
	// Promote only while the display is free; a lost race on the
	// conditional write below is treated as "someone else took the slot".
	if active == nil {
		if err := uc.promoteDue(ctx, now); err != nil {
			return err
		}
	}

	if err := uc.advanceCountdowns(ctx, now); err != nil {
		return err
	}
	return uc.completePlaying(ctx, now)
}

// promoteDue moves the oldest due scheduled campaign into countdown, or
// straight to playing when it has no pre-roll.
func (uc *Usecase) promoteDue(ctx context.Context, now time.Time) error {
	next, err := uc.campaigns.OldestDueScheduled(ctx, now)
	if err != nil {
		return fmt.Errorf("querying due campaigns: %w", err)
	}
	if next == nil {
		return nil
	}

	target := domain.StatusCountdown
	eventType := domain.EventCountdownStart
	if next.CountdownSeconds == 0 {
		target = domain.StatusPlaying
		eventType = domain.EventVideoPlay
	}

	startedAt := now
	err = uc.campaigns.TransitionStatus(ctx, next.ID, domain.StatusScheduled, target, &startedAt)
	if errors.Is(err, domain.ErrCampaignConcurrentUpdate) {
		uc.logger.Warn("campaign promotion lost a concurrent update",
			zap.String("campaign_id", next.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("promoting campaign %s: %w", next.ID, err)
	}

	next.Status = target
	next.StartedAt = &startedAt
	uc.metrics.RecordCampaignTransition(string(target))
	uc.logger.Info("campaign promoted",
		zap.String("campaign_id", next.ID),
		zap.String("status", string(target)),
		zap.Int("countdown_seconds", next.CountdownSeconds),
	)

	return uc.publishCampaignEvent(ctx, eventType, next, nil)
}

// advanceCountdowns flips countdown campaigns whose pre-roll has elapsed
// into playing.
func (uc *Usecase) advanceCountdowns(ctx context.Context, now time.Time) error {
	counting, err := uc.campaigns.ListByStatus(ctx, domain.StatusCountdown)
	if err != nil {
		return fmt.Errorf("listing countdown campaigns: %w", err)
	}

	for _, c := range counting {
		if !c.CountdownOver(now) {
			continue
		}
		err := uc.campaigns.TransitionStatus(ctx, c.ID, domain.StatusCountdown, domain.StatusPlaying, nil)
		if errors.Is(err, domain.ErrCampaignConcurrentUpdate) {
			continue
		}
		if err != nil {
			return fmt.Errorf("starting campaign %s: %w", c.ID, err)
		}

		c.Status = domain.StatusPlaying
		uc.metrics.RecordCampaignTransition(string(domain.StatusPlaying))
		uc.logger.Info("campaign video started", zap.String("campaign_id", c.ID))

		if err := uc.publishCampaignEvent(ctx, domain.EventVideoPlay, c, nil); err != nil {
			return err
		}
	}
	return nil
}

// completePlaying finishes playing campaigns whose video has ended and
// applies the highlight price side effect atomically with the status write,
// so clients never observe a video end whose price has not changed yet.
func (uc *Usecase) completePlaying(ctx context.Context, now time.Time) error {
	playing, err := uc.campaigns.ListByStatus(ctx, domain.StatusPlaying)
	if err != nil {
		return fmt.Errorf("listing playing campaigns: %w", err)
	}

	for _, c := range playing {
		video, err := uc.videos.GetByID(ctx, c.VideoID)
		if err != nil {
			return fmt.Errorf("loading video %s: %w", c.VideoID, err)
		}
		videoEnd := c.VideoEnd(time.Duration(video.DurationSeconds) * time.Second)
		if now.Before(videoEnd) {
			continue
		}

		var change *domain.PriceChange
		var highlight *domain.HighlightPayload
		if h := c.Highlight; h != nil {
			product, err := uc.products.GetByID(ctx, h.ProductID)
			if err != nil {
				return fmt.Errorf("loading highlight product %s: %w", h.ProductID, err)
			}
			applied := product.ClampPrice(h.PromotionalPrice)
			change = &domain.PriceChange{
				ProductID:     product.ID,
				NewPrice:      applied,
				PreviousPrice: product.CurrentPrice,
				Trend:         trendFor(product.CurrentPrice, applied, product.Trend),
				Timestamp:     now,
			}
			highlight = &domain.HighlightPayload{
				ProductID:        h.ProductID,
				PromotionalPrice: h.PromotionalPrice,
				NewPrice:         applied,
				DurationSeconds:  h.DurationSeconds,
			}
		}

		if err := uc.campaigns.Complete(ctx, c.ID, now, change); err != nil {
			if errors.Is(err, domain.ErrCampaignConcurrentUpdate) {
				continue
			}
			return fmt.Errorf("completing campaign %s: %w", c.ID, err)
		}

		c.Status = domain.StatusCompleted
		c.CompletedAt = &now
		uc.metrics.RecordCampaignTransition(string(domain.StatusCompleted))
		uc.logger.Info("campaign completed",
			zap.String("campaign_id", c.ID),
			zap.Bool("highlight", highlight != nil),
		)

		if err := uc.publishCampaignEvent(ctx, domain.EventVideoEnd, c, highlight); err != nil {
			return err
		}
		if change != nil {
			if err := uc.publishPriceUpdate(ctx, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func trendFor(old, next int64, previous domain.Trend) domain.Trend {
	switch {
	case next > old:
		return domain.TrendUp
	case next < old:
		return domain.TrendDown
	default:
		return previous
	}
}
