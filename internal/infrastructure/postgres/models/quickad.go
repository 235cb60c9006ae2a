package models

import "time"

type QuickAdModel struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Name string `gorm:"not null"`

	ProductID        *string `gorm:"type:uuid"`
	PromotionalPrice *int64

	Text  string
	Price *int64

	DurationSeconds int
	LastPlayedAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SettingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}
