package quickad

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
)

// Usecase plays ad-hoc overlays. Quick ads have no persisted state
// machine: "currently playing" is derived from lastPlayedAt + duration,
// so a missed notification is self-healing via the state endpoint.
type Usecase struct {
	ads       domain.QuickAdRepository
	campaigns domain.CampaignRepository
	products  domain.ProductRepository
	publisher domain.Publisher
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *metrics.DisplayMetrics
}

func NewUsecase(
	ads domain.QuickAdRepository,
	campaigns domain.CampaignRepository,
	products domain.ProductRepository,
	publisher domain.Publisher,
	clk clock.Clock,
	logger *zap.Logger,
	m *metrics.DisplayMetrics,
) *Usecase {
	return &Usecase{
		ads:       ads,
		campaigns: campaigns,
		products:  products,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		metrics:   m,
	}
}

// Create validates and persists a new quick ad.
func (uc *Usecase) Create(ctx context.Context, a *domain.QuickAd) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ProductID != nil {
		if _, err := uc.products.GetByID(ctx, *a.ProductID); err != nil {
			return err
		}
	}
	return uc.ads.Create(ctx, a)
}

// Play pushes the ad to the display immediately. An active campaign owns
// the screen and wins: the play is rejected, nothing is mutated and no
// event is emitted.
func (uc *Usecase) Play(ctx context.Context, id string) (*domain.QuickAd, error) {
	active, err := uc.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying active campaign: %w", err)
	}
	if active != nil {
		return nil, domain.ErrScreenBusy
	}

	ad, err := uc.ads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	payload := &domain.QuickAdPayload{
		ID:              ad.ID,
		Name:            ad.Name,
		Text:            ad.Text,
		DurationSeconds: ad.DurationSeconds,
	}
	if ad.Price != nil {
		payload.Price = *ad.Price
	}

	// The promo price change lands in the same MarkPlayed transaction.
	var change *domain.PriceChange
	if ad.ProductID != nil {
		product, err := uc.products.GetByID(ctx, *ad.ProductID)
		if err != nil {
			return nil, err
		}
		payload.ProductID = product.ID
		payload.ProductName = product.Name

		if ad.PromotionalPrice != nil {
			applied := product.ClampPrice(*ad.PromotionalPrice)
			payload.PromotionalPrice = applied
			if applied != product.CurrentPrice {
				change = &domain.PriceChange{
					ProductID:     product.ID,
					NewPrice:      applied,
					PreviousPrice: product.CurrentPrice,
					Trend:         trendFor(product.CurrentPrice, applied, product.Trend),
					Timestamp:     now,
				}
			}
		}
	}

	if err := uc.ads.MarkPlayed(ctx, ad.ID, now, change); err != nil {
		return nil, fmt.Errorf("marking quick ad %s played: %w", ad.ID, err)
	}
	ad.LastPlayedAt = &now
	priceChanged := change != nil

	event := domain.CampaignEvent{
		Type:      domain.EventQuickAdPlay,
		QuickAd:   payload,
		Timestamp: now,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshaling quick ad event: %w", err)
	}
	if err := uc.publisher.Publish(ctx, domain.ChannelCampaignUpdate, raw); err != nil {
		return nil, fmt.Errorf("publishing quick ad event: %w", err)
	}
	uc.metrics.RecordNotification(domain.ChannelCampaignUpdate)

	if priceChanged {
		priceEvent := domain.PriceUpdateEvent{Count: 1, Timestamp: now}
		rawPrice, err := json.Marshal(priceEvent)
		if err != nil {
			return nil, fmt.Errorf("marshaling price update event: %w", err)
		}
		if err := uc.publisher.Publish(ctx, domain.ChannelPriceUpdate, rawPrice); err != nil {
			return nil, fmt.Errorf("publishing price update event: %w", err)
		}
		uc.metrics.RecordNotification(domain.ChannelPriceUpdate)
	}

	uc.metrics.RecordQuickAdPlay()
	uc.logger.Info("quick ad played",
		zap.String("quick_ad_id", ad.ID),
		zap.Int("duration_seconds", ad.DurationSeconds),
		zap.Bool("price_changed", priceChanged),
	)
	return ad, nil
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
