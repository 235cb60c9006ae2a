package domain

import (
	"fmt"
	"time"
)

type PricingMode string

const (
	PricingOff  PricingMode = "off"
	PricingUp   PricingMode = "up"
	PricingDown PricingMode = "down"
	PricingFull PricingMode = "full"
)

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Product is a display item with self-adjusting pricing. Identity fields are
// owned by admin workflows; the pricing engine owns CurrentPrice, Trend,
// LastPriceUpdate and SalesCountAtLastUpdate.
type Product struct {
	ID            string
	Name          string
	BasePrice     int64
	CurrentPrice  int64
	PreviousPrice int64
	MinPrice      int64
	MaxPrice      int64

	PricingMode           PricingMode
	IncreaseBasePercent   float64
	IncreaseRandomPercent float64
	DecreaseBasePercent   float64
	DecreaseRandomPercent float64

	// SalesCount only grows; corrections go through the signed adjustment.
	SalesCount             int64
	ManualSalesAdjustment  int64
	SalesCountAtLastUpdate int64

	Trend           Trend
	LastPriceUpdate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidatePricing checks the pricing configuration before any write.
func (p *Product) ValidatePricing() error {
	if p.MinPrice >= p.MaxPrice {
		return fmt.Errorf("%w: min price %d must be below max price %d", ErrInvalidPricing, p.MinPrice, p.MaxPrice)
	}
	for _, pct := range []float64{p.IncreaseBasePercent, p.IncreaseRandomPercent, p.DecreaseBasePercent, p.DecreaseRandomPercent} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: percent %.2f out of range [0,100]", ErrInvalidPricing, pct)
		}
	}
	if p.SalesCount < 0 {
		return fmt.Errorf("%w: sales count must not be negative", ErrInvalidPricing)
	}
	if p.SalesCountAtLastUpdate > p.SalesCount {
		return fmt.Errorf("%w: sales baseline above sales count", ErrInvalidPricing)
	}
	switch p.PricingMode {
	case PricingOff, PricingUp, PricingDown, PricingFull:
	default:
		return fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidPricing, p.PricingMode)
	}
	return nil
}

// ClampPrice forces a price into the product's [min, max] bounds.
func (p *Product) ClampPrice(price int64) int64 {
	if price < p.MinPrice {
		return p.MinPrice
	}
	if price > p.MaxPrice {
		return p.MaxPrice
	}
	return price
}

// PriceHistoryEntry is an append-only audit row; entries are never mutated.
type PriceHistoryEntry struct {
	ID        string
	ProductID string
	Price     int64
	Timestamp time.Time
}

// PriceChange is a single applied price mutation: campaign highlight,
// quick ad promotion, or an engine recomputation that moved the price.
type PriceChange struct {
	ProductID     string
	NewPrice      int64
	PreviousPrice int64
	Trend         Trend
	Timestamp     time.Time
}

// PriceRecomputation is the outcome of one engine pass over a product.
// SalesBaseline becomes the new SalesCountAtLastUpdate and the manual
// adjustment is spent regardless of whether the price moved.
type PriceRecomputation struct {
	ProductID     string
	NewPrice      int64
	PreviousPrice int64
	Trend         Trend
	PriceChanged  bool
	SalesBaseline int64
	UpdatedAt     time.Time
}
