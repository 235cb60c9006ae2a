package domain

import "errors"

var (
	ErrInvalidPricing  = errors.New("invalid pricing configuration")
	ErrInvalidCampaign = errors.New("invalid campaign")
	ErrInvalidQuickAd  = errors.New("invalid quick ad")
	ErrInvalidSetting  = errors.New("invalid setting")

	ErrProductNotFound  = errors.New("product not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrQuickAdNotFound  = errors.New("quick ad not found")
	ErrVideoNotFound    = errors.New("video not found")

	// ErrScreenBusy rejects starting content while a campaign occupies
	// the display.
	ErrScreenBusy = errors.New("another campaign is occupying the display")

	// ErrCampaignConcurrentUpdate signals a lost conditional write: the
	// campaign moved under us and the transition must not be applied.
	ErrCampaignConcurrentUpdate = errors.New("campaign was updated concurrently")
)
