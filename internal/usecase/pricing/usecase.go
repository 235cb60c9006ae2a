package pricing

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
)

// Usecase runs the recurring price recomputation over every product with
// an active pricing mode.
type Usecase struct {
	products  domain.ProductRepository
	publisher domain.Publisher
	engine    *Engine
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *metrics.DisplayMetrics
}

func NewUsecase(
	products domain.ProductRepository,
	publisher domain.Publisher,
	engine *Engine,
	clk clock.Clock,
	logger *zap.Logger,
	m *metrics.DisplayMetrics,
) *Usecase {
	return &Usecase{
		products:  products,
		publisher: publisher,
		engine:    engine,
		clock:     clk,
		logger:    logger,
		metrics:   m,
	}
}

// UpdateAllPrices recomputes every pricable product once. Each pass resets
// the sales baseline; a history row is appended only when the price moved.
// Infrastructure errors abort the tick so the job queue's retry policy
// takes over.
func (uc *Usecase) UpdateAllPrices(ctx context.Context, manual bool) error {
	now := uc.clock.Now()

	products, err := uc.products.ListPricable(ctx)
	if err != nil {
		return fmt.Errorf("listing pricable products: %w", err)
	}

	changed := 0
	for _, p := range products {
		window := SalesThisWindow(p)
		next := uc.engine.NextPrice(p, window)

		rec := &domain.PriceRecomputation{
			ProductID:     p.ID,
			NewPrice:      next,
			PreviousPrice: p.CurrentPrice,
			Trend:         TrendFor(p.CurrentPrice, next, p.Trend),
			PriceChanged:  next != p.CurrentPrice,
			SalesBaseline: p.SalesCount,
			UpdatedAt:     now,
		}
		if err := uc.products.ApplyRecomputation(ctx, rec); err != nil {
			return fmt.Errorf("applying recomputation for product %s: %w", p.ID, err)
		}

		if rec.PriceChanged {
			changed++
			uc.logger.Info("price updated",
				zap.String("product_id", p.ID),
				zap.Int64("old_price", p.CurrentPrice),
				zap.Int64("new_price", next),
				zap.Int64("sales_window", window),
				zap.Bool("manual", manual),
			)
		}
	}

	uc.metrics.RecordPriceTick(len(products), changed)

	if changed > 0 {
		if err := uc.publishPriceUpdate(ctx, changed); err != nil {
			return err
		}
	}
	return nil
}

func (uc *Usecase) publishPriceUpdate(ctx context.Context, count int) error {
	event := domain.PriceUpdateEvent{Count: count, Timestamp: uc.clock.Now()}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling price update event: %w", err)
	}
	if err := uc.publisher.Publish(ctx, domain.ChannelPriceUpdate, payload); err != nil {
		return fmt.Errorf("publishing price update event: %w", err)
	}
	uc.metrics.RecordNotification(domain.ChannelPriceUpdate)
	return nil
}
