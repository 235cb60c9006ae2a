package domain

import "time"

// Notification channels shared by every process through the database.
const (
	ChannelCampaignUpdate = "campaign_update"
	ChannelPriceUpdate    = "price_update"
)

type CampaignEventType string

const (
	EventCountdownStart CampaignEventType = "COUNTDOWN_START"
	EventVideoPlay      CampaignEventType = "VIDEO_PLAY"
	EventVideoEnd       CampaignEventType = "VIDEO_END"
	EventCancelled      CampaignEventType = "CANCELLED"
	EventQuickAdPlay    CampaignEventType = "QUICK_AD_PLAY"
)

// HighlightPayload carries the promotional price change attached to a
// finished campaign, including the price that was actually applied after
// clamping into the product's bounds.
type HighlightPayload struct {
	ProductID        string `json:"productId"`
	PromotionalPrice int64  `json:"promotionalPrice"`
	NewPrice         int64  `json:"newPrice"`
	DurationSeconds  int    `json:"highlightDurationSeconds"`
}

type CampaignPayload struct {
	ID               string            `json:"id"`
	VideoID          string            `json:"videoId"`
	VideoURL         string            `json:"videoUrl,omitempty"`
	Status           CampaignStatus    `json:"status"`
	CountdownSeconds int               `json:"countdownSeconds"`
	StartedAt        *time.Time        `json:"startedAt,omitempty"`
	Highlight        *HighlightPayload `json:"highlight,omitempty"`
}

type QuickAdPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ProductID        string `json:"productId,omitempty"`
	ProductName      string `json:"productName,omitempty"`
	PromotionalPrice int64  `json:"promotionalPrice,omitempty"`
	Text             string `json:"text,omitempty"`
	Price            int64  `json:"price,omitempty"`
	DurationSeconds  int    `json:"durationSeconds"`
}

// CampaignEvent is the campaign_update channel payload.
type CampaignEvent struct {
	Type      CampaignEventType `json:"type"`
	Campaign  *CampaignPayload  `json:"campaign,omitempty"`
	QuickAd   *QuickAdPayload   `json:"quickAd,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// PriceUpdateEvent is a coarse "something changed, re-fetch" signal,
// not a diff.
type PriceUpdateEvent struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
