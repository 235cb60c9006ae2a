package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/mappers"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

type DefaultQuickAdRepository struct {
	DB *gorm.DB
}

func NewDefaultQuickAdRepository(db *gorm.DB) *DefaultQuickAdRepository {
	return &DefaultQuickAdRepository{DB: db}
}

func (r *DefaultQuickAdRepository) GetByID(ctx context.Context, id string) (*domain.QuickAd, error) {
	var m models.QuickAdModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuickAdNotFound
		}
		return nil, err
	}
	return mappers.ToDomainQuickAd(&m), nil
}

func (r *DefaultQuickAdRepository) List(ctx context.Context) ([]*domain.QuickAd, error) {
	var ms []models.QuickAdModel
	if err := r.DB.WithContext(ctx).Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	ads := make([]*domain.QuickAd, len(ms))
	for i := range ms {
		ads[i] = mappers.ToDomainQuickAd(&ms[i])
	}
	return ads, nil
}

func (r *DefaultQuickAdRepository) Create(ctx context.Context, a *domain.QuickAd) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(mappers.ToGORMQuickAd(a)).Error
}

// MarkPlayed stamps last_played_at; the promotional price change rides
// in the same transaction.
func (r *DefaultQuickAdRepository) MarkPlayed(ctx context.Context, id string, playedAt time.Time, change *domain.PriceChange) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QuickAdModel{}).
			Where("id = ?", id).
			Update("last_played_at", playedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrQuickAdNotFound
		}
		if change != nil {
			return applyPriceChangeTx(tx, change)
		}
		return nil
	})
}
