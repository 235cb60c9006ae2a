package models

import "time"

type ProductModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Name          string `gorm:"not null"`
	BasePrice     int64
	CurrentPrice  int64
	PreviousPrice int64
	MinPrice      int64
	MaxPrice      int64

	PricingMode           string `gorm:"index;default:'off'"`
	IncreaseBasePercent   float64
	IncreaseRandomPercent float64
	DecreaseBasePercent   float64
	DecreaseRandomPercent float64

	SalesCount             int64
	ManualSalesAdjustment  int64
	SalesCountAtLastUpdate int64

	Trend           string
	LastPriceUpdate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PriceHistoryModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	ProductID string    `gorm:"type:uuid;index:idx_history_product_ts;not null"`
	Price     int64     `gorm:"not null"`
	Timestamp time.Time `gorm:"index:idx_history_product_ts;not null"`
}
