package domain

import (
	"fmt"
	"time"
)

// QuickAd is an instant overlay: either product-linked with a promotional
// price, or a freeform text with its own price. It has no persisted state
// machine — "playing" is derived from LastPlayedAt.
type QuickAd struct {
	ID   string
	Name string

	// Product-linked target.
	ProductID        *string
	PromotionalPrice *int64

	// Freeform target.
	Text  string
	Price *int64

	DurationSeconds int
	LastPlayedAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the ad has exactly one usable target.
func (a *QuickAd) Validate() error {
	if a.DurationSeconds <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidQuickAd)
	}
	productLinked := a.ProductID != nil
	if productLinked && a.PromotionalPrice != nil && *a.PromotionalPrice <= 0 {
		return fmt.Errorf("%w: promotional price must be positive", ErrInvalidQuickAd)
	}
	if !productLinked && a.Text == "" {
		return fmt.Errorf("%w: either a product link or freeform text is required", ErrInvalidQuickAd)
	}
	return nil
}

// PlayingAt derives whether the ad currently occupies the display.
func (a *QuickAd) PlayingAt(now time.Time) bool {
	if a.LastPlayedAt == nil {
		return false
	}
	return a.LastPlayedAt.Add(time.Duration(a.DurationSeconds) * time.Second).After(now)
}
