package pricing

import (
	"math"
	"math/rand"
	"time"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

// Engine computes the next price for a product from its sales window.
// Pure apart from one random draw per call; the source is injectable so
// computations are reproducible in tests.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// NextPrice returns the product's next price, clamped into [min, max] and
// rounded to the nearest whole unit. It never mutates the product.
func (e *Engine) NextPrice(p *domain.Product, salesThisWindow int64) int64 {
	if p.PricingMode == domain.PricingOff {
		return p.CurrentPrice
	}

	var pct float64
	if salesThisWindow > 0 {
		// Increase window; down-only mode ignores sales.
		if p.PricingMode == domain.PricingDown {
			return p.CurrentPrice
		}
		pct = p.IncreaseBasePercent + e.rng.Float64()*p.IncreaseRandomPercent
	} else {
		// Decrease window; up-only mode never lowers the price.
		if p.PricingMode == domain.PricingUp {
			return p.CurrentPrice
		}
		pct = -(p.DecreaseBasePercent + e.rng.Float64()*p.DecreaseRandomPercent)
	}

	price := float64(p.CurrentPrice) * (1 + pct/100)
	price = math.Min(math.Max(price, float64(p.MinPrice)), float64(p.MaxPrice))
	return int64(math.Round(price))
}

// TrendFor keeps the previous trend when the price did not move.
func TrendFor(old, next int64, previous domain.Trend) domain.Trend {
	switch {
	case next > old:
		return domain.TrendUp
	case next < old:
		return domain.TrendDown
	default:
		return previous
	}
}
