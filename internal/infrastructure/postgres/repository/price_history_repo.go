package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/mappers"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

type DefaultPriceHistoryRepository struct {
	DB *gorm.DB
}

func NewDefaultPriceHistoryRepository(db *gorm.DB) *DefaultPriceHistoryRepository {
	return &DefaultPriceHistoryRepository{DB: db}
}

func (r *DefaultPriceHistoryRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]*domain.PriceHistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var ms []models.PriceHistoryModel
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	entries := make([]*domain.PriceHistoryEntry, len(ms))
	for i := range ms {
		entries[i] = mappers.ToDomainHistoryEntry(&ms[i])
	}
	return entries, nil
}
