package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
)

// Usecase is the campaign orchestrator: a state machine over persisted
// campaign records, advanced by the process-campaigns tick and by explicit
// cancellation.
type Usecase struct {
	campaigns domain.CampaignRepository
	products  domain.ProductRepository
	videos    domain.VideoRepository
	publisher domain.Publisher
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *metrics.DisplayMetrics
}

func NewUsecase(
	campaigns domain.CampaignRepository,
	products domain.ProductRepository,
	videos domain.VideoRepository,
	publisher domain.Publisher,
	clk clock.Clock,
	logger *zap.Logger,
	m *metrics.DisplayMetrics,
) *Usecase {
	return &Usecase{
		campaigns: campaigns,
		products:  products,
		videos:    videos,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		metrics:   m,
	}
}

// Schedule validates and persists a new campaign in the scheduled state.
func (uc *Usecase) Schedule(ctx context.Context, c *domain.VideoCampaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if h := c.Highlight; h != nil {
		if _, err := uc.products.GetByID(ctx, h.ProductID); err != nil {
			return err
		}
	}
	if _, err := uc.videos.GetByID(ctx, c.VideoID); err != nil {
		return err
	}
	c.Status = domain.StatusScheduled
	return uc.campaigns.Create(ctx, c)
}

// Cancel forces a non-terminal campaign to cancelled and notifies clients.
// Terminal and unknown campaigns both signal not-found.
func (uc *Usecase) Cancel(ctx context.Context, id string) error {
	cancelled, err := uc.campaigns.Cancel(ctx, id)
	if err != nil {
		return err
	}

	uc.metrics.RecordCampaignTransition(string(domain.StatusCancelled))
	uc.logger.Info("campaign cancelled", zap.String("campaign_id", id))

	return uc.publishCampaignEvent(ctx, domain.EventCancelled, cancelled, nil)
}

// ActiveCampaign exposes the single-consumer-of-the-screen query for
// collaborators and the state endpoint.
func (uc *Usecase) ActiveCampaign(ctx context.Context) (*domain.VideoCampaign, error) {
	return uc.campaigns.ActiveCampaign(ctx)
}

func (uc *Usecase) publishCampaignEvent(ctx context.Context, eventType domain.CampaignEventType, c *domain.VideoCampaign, highlight *domain.HighlightPayload) error {
	payload := &domain.CampaignPayload{
		ID:               c.ID,
		VideoID:          c.VideoID,
		Status:           c.Status,
		CountdownSeconds: c.CountdownSeconds,
		StartedAt:        c.StartedAt,
		Highlight:        highlight,
	}
	if video, err := uc.videos.GetByID(ctx, c.VideoID); err == nil {
		payload.VideoURL = video.URL
	} else if !errors.Is(err, domain.ErrVideoNotFound) {
		return fmt.Errorf("loading video %s: %w", c.VideoID, err)
	}

	event := domain.CampaignEvent{
		Type:      eventType,
		Campaign:  payload,
		Timestamp: uc.clock.Now(),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling campaign event: %w", err)
	}
	if err := uc.publisher.Publish(ctx, domain.ChannelCampaignUpdate, raw); err != nil {
		return fmt.Errorf("publishing %s event: %w", eventType, err)
	}
	uc.metrics.RecordNotification(domain.ChannelCampaignUpdate)
	return nil
}

func (uc *Usecase) publishPriceUpdate(ctx context.Context, count int) error {
	event := domain.PriceUpdateEvent{Count: count, Timestamp: uc.clock.Now()}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling price update event: %w", err)
	}
	if err := uc.publisher.Publish(ctx, domain.ChannelPriceUpdate, raw); err != nil {
		return fmt.Errorf("publishing price update event: %w", err)
	}
	uc.metrics.RecordNotification(domain.ChannelPriceUpdate)
	return nil
}
