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

type DefaultProductRepository struct {
	DB *gorm.DB
}

func NewDefaultProductRepository(db *gorm.DB) *DefaultProductRepository {
	return &DefaultProductRepository{DB: db}
}

func (r *DefaultProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var m models.ProductModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return mappers.ToDomainProduct(&m), nil
}

func (r *DefaultProductRepository) ListPricable(ctx context.Context) ([]*domain.Product, error) {
	var ms []models.ProductModel
	if err := r.DB.WithContext(ctx).
		Where("pricing_mode <> ?", string(domain.PricingOff)).
		Order("created_at").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(ms), nil
}

func (r *DefaultProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var ms []models.ProductModel
	if err := r.DB.WithContext(ctx).Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(ms), nil
}

func (r *DefaultProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(mappers.ToGORMProduct(p)).Error
}

// ApplyRecomputation persists one engine pass. The baseline reset and the
// spent manual adjustment are written on every pass; price fields and the
// history row only when the price moved, all in one transaction.
func (r *DefaultProductRepository) ApplyRecomputation(ctx context.Context, rec *domain.PriceRecomputation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"sales_count_at_last_update": rec.SalesBaseline,
			"manual_sales_adjustment":    0,
			"last_price_update":          rec.UpdatedAt,
		}
		if rec.PriceChanged {
			updates["current_price"] = rec.NewPrice
			updates["previous_price"] = rec.PreviousPrice
			updates["trend"] = string(rec.Trend)
		}

		res := tx.Model(&models.ProductModel{}).Where("id = ?", rec.ProductID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}

		if rec.PriceChanged {
			return appendHistory(tx, rec.ProductID, rec.NewPrice, rec.UpdatedAt)
		}
		return nil
	})
}

// ApplyPriceChange persists a promotional price change and its audit row.
// The sales baseline is untouched: promotions are not recomputations.
func (r *DefaultProductRepository) ApplyPriceChange(ctx context.Context, change *domain.PriceChange) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyPriceChangeTx(tx, change)
	})
}

func applyPriceChangeTx(tx *gorm.DB, change *domain.PriceChange) error {
	res := tx.Model(&models.ProductModel{}).
		Where("id = ?", change.ProductID).
		Updates(map[string]any{
			"current_price":     change.NewPrice,
			"previous_price":    change.PreviousPrice,
			"trend":             string(change.Trend),
			"last_price_update": change.Timestamp,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return appendHistory(tx, change.ProductID, change.NewPrice, change.Timestamp)
}

func appendHistory(tx *gorm.DB, productID string, price int64, ts time.Time) error {
	return tx.Create(&models.PriceHistoryModel{
		ID:        uuid.NewString(),
		ProductID: productID,
		Price:     price,
		Timestamp: ts,
	}).Error
}

func toDomainProducts(ms []models.ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(ms))
	for i := range ms {
		products[i] = mappers.ToDomainProduct(&ms[i])
	}
	return products
}
