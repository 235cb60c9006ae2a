package mappers

import (
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

func ToDomainProduct(m *models.ProductModel) *domain.Product {
	return &domain.Product{
		ID:                     m.ID,
		Name:                   m.Name,
		BasePrice:              m.BasePrice,
		CurrentPrice:           m.CurrentPrice,
		PreviousPrice:          m.PreviousPrice,
		MinPrice:               m.MinPrice,
		MaxPrice:               m.MaxPrice,
		PricingMode:            domain.PricingMode(m.PricingMode),
		IncreaseBasePercent:    m.IncreaseBasePercent,
		IncreaseRandomPercent:  m.IncreaseRandomPercent,
		DecreaseBasePercent:    m.DecreaseBasePercent,
		DecreaseRandomPercent:  m.DecreaseRandomPercent,
		SalesCount:             m.SalesCount,
		ManualSalesAdjustment:  m.ManualSalesAdjustment,
		SalesCountAtLastUpdate: m.SalesCountAtLastUpdate,
		Trend:                  domain.Trend(m.Trend),
		LastPriceUpdate:        m.LastPriceUpdate,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func ToGORMProduct(p *domain.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:                     p.ID,
		Name:                   p.Name,
		BasePrice:              p.BasePrice,
		CurrentPrice:           p.CurrentPrice,
		PreviousPrice:          p.PreviousPrice,
		MinPrice:               p.MinPrice,
		MaxPrice:               p.MaxPrice,
		PricingMode:            string(p.PricingMode),
		IncreaseBasePercent:    p.IncreaseBasePercent,
		IncreaseRandomPercent:  p.IncreaseRandomPercent,
		DecreaseBasePercent:    p.DecreaseBasePercent,
		DecreaseRandomPercent:  p.DecreaseRandomPercent,
		SalesCount:             p.SalesCount,
		ManualSalesAdjustment:  p.ManualSalesAdjustment,
		SalesCountAtLastUpdate: p.SalesCountAtLastUpdate,
		Trend:                  string(p.Trend),
		LastPriceUpdate:        p.LastPriceUpdate,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func ToDomainHistoryEntry(m *models.PriceHistoryModel) *domain.PriceHistoryEntry {
	return &domain.PriceHistoryEntry{
		ID:        m.ID,
		ProductID: m.ProductID,
		Price:     m.Price,
		Timestamp: m.Timestamp,
	}
}
