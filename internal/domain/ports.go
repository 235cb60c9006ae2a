package domain

import (
	"context"
	"time"
)

// Publisher pushes a serialized event to every process interested in a
// channel. Production wires the database relay, tests the in-process hub.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	// ListPricable returns products whose pricing mode is not off.
	ListPricable(ctx context.Context) ([]*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	// ApplyRecomputation persists an engine pass: the baseline reset always,
	// the price fields and a history row only when the price moved.
	ApplyRecomputation(ctx context.Context, rec *PriceRecomputation) error
	// ApplyPriceChange persists a promotional price change together with
	// its history row.
	ApplyPriceChange(ctx context.Context, change *PriceChange) error
}

type PriceHistoryRepository interface {
	ListByProduct(ctx context.Context, productID string, limit int) ([]*PriceHistoryEntry, error)
}

type CampaignRepository interface {
	GetByID(ctx context.Context, id string) (*VideoCampaign, error)
	Create(ctx context.Context, c *VideoCampaign) error
	// ActiveCampaign returns the campaign currently in countdown or playing,
	// or nil when the display is free.
	ActiveCampaign(ctx context.Context) (*VideoCampaign, error)
	// OldestDueScheduled returns the scheduled campaign with the earliest
	// scheduledAt not after now, or nil.
	OldestDueScheduled(ctx context.Context, now time.Time) (*VideoCampaign, error)
	ListByStatus(ctx context.Context, status CampaignStatus) ([]*VideoCampaign, error)
	// TransitionStatus is a conditional write: it moves the campaign from
	// `from` to `to` and reports ErrCampaignConcurrentUpdate when the row
	// was no longer in `from`. startedAt is set only when non-nil.
	TransitionStatus(ctx context.Context, id string, from, to CampaignStatus, startedAt *time.Time) error
	// Complete moves a playing campaign to completed and, when change is
	// non-nil, applies the highlight price side effect in the same
	// transaction.
	Complete(ctx context.Context, id string, completedAt time.Time, change *PriceChange) error
	// Cancel forces any non-terminal campaign to cancelled; terminal or
	// missing campaigns report ErrCampaignNotFound.
	Cancel(ctx context.Context, id string) (*VideoCampaign, error)
}

type QuickAdRepository interface {
	GetByID(ctx context.Context, id string) (*QuickAd, error)
	List(ctx context.Context) ([]*QuickAd, error)
	Create(ctx context.Context, a *QuickAd) error
	// MarkPlayed stamps lastPlayedAt and, when change is non-nil, applies
	// the promotional price side effect in the same transaction.
	MarkPlayed(ctx context.Context, id string, playedAt time.Time, change *PriceChange) error
}

type VideoRepository interface {
	GetByID(ctx context.Context, id string) (*Video, error)
	Create(ctx context.Context, v *Video) error
	UpdateStatus(ctx context.Context, id string, status VideoStatus, url string, durationSeconds int, errorMessage string) error
}

type SettingsRepository interface {
	GetPriceInterval(ctx context.Context) (PriceInterval, error)
	SetPriceInterval(ctx context.Context, pi PriceInterval) error
}
