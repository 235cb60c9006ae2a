package models

import "time"

type VideoCampaignModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	VideoID          string    `gorm:"type:uuid;not null"`
	ScheduledAt      time.Time `gorm:"index:idx_campaign_status_scheduled"`
	CountdownSeconds int
	Status           string `gorm:"index:idx_campaign_status_scheduled"`
	StartedAt        *time.Time
	CompletedAt      *time.Time

	HighlightProductID       *string `gorm:"type:uuid"`
	HighlightPrice           *int64
	HighlightDurationSeconds *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type VideoModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	Prompt          string
	Status          string `gorm:"index;default:'pending'"`
	URL             string
	DurationSeconds int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
