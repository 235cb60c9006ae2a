package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

func pricableProduct() *domain.Product {
	return &domain.Product{
		ID:                    "p1",
		Name:                  "croissant",
		CurrentPrice:          1000,
		MinPrice:              500,
		MaxPrice:              2000,
		PricingMode:           domain.PricingFull,
		IncreaseBasePercent:   2,
		IncreaseRandomPercent: 3,
		DecreaseBasePercent:   1,
		DecreaseRandomPercent: 2,
	}
}

func TestNextPriceIncreaseWindow(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()

	next := engine.NextPrice(p, 4)

	// pct in [base, base+random] => price in [1020, 1050]
	assert.GreaterOrEqual(t, next, int64(1020))
	assert.LessOrEqual(t, next, int64(1050))
	assert.Equal(t, int64(1000), p.CurrentPrice, "engine must not mutate the product")
}

func TestNextPriceDecreaseWindow(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()

	next := engine.NextPrice(p, 0)

	// pct in [-3, -1] => price in [970, 990]
	assert.GreaterOrEqual(t, next, int64(970))
	assert.LessOrEqual(t, next, int64(990))
}

func TestNextPriceNegativeWindowDecreases(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(7)))
	p := pricableProduct()

	next := engine.NextPrice(p, -2)
	assert.Less(t, next, p.CurrentPrice)
}

func TestNextPriceDeterministicForSeed(t *testing.T) {
	p := pricableProduct()

	first := NewEngine(rand.New(rand.NewSource(42))).NextPrice(p, 3)
	second := NewEngine(rand.New(rand.NewSource(42))).NextPrice(p, 3)
	assert.Equal(t, first, second)
}

func TestNextPriceModeOff(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()
	p.PricingMode = domain.PricingOff

	assert.Equal(t, p.CurrentPrice, engine.NextPrice(p, 10))
	assert.Equal(t, p.CurrentPrice, engine.NextPrice(p, 0))
}

func TestNextPriceModeDownIgnoresSales(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()
	p.PricingMode = domain.PricingDown

	assert.Equal(t, p.CurrentPrice, engine.NextPrice(p, 5), "down-only mode never raises")
	assert.Less(t, engine.NextPrice(p, 0), p.CurrentPrice)
}

func TestNextPriceModeUpIgnoresIdleWindow(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()
	p.PricingMode = domain.PricingUp

	assert.Equal(t, p.CurrentPrice, engine.NextPrice(p, 0), "up-only mode never lowers")
	assert.Greater(t, engine.NextPrice(p, 5), p.CurrentPrice)
}

func TestNextPriceClampsToMax(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()
	p.CurrentPrice = 1990
	p.IncreaseBasePercent = 50

	assert.Equal(t, p.MaxPrice, engine.NextPrice(p, 3))
}

func TestNextPriceClampsToMin(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)))
	p := pricableProduct()
	p.CurrentPrice = 510
	p.DecreaseBasePercent = 50

	assert.Equal(t, p.MinPrice, engine.NextPrice(p, 0))
}

func TestNextPriceRoundsToNearestUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	probe := rand.New(rand.NewSource(3))
	p := pricableProduct()

	pct := p.IncreaseBasePercent + probe.Float64()*p.IncreaseRandomPercent
	want := int64(math.Round(float64(p.CurrentPrice) * (1 + pct/100)))

	require.Equal(t, want, NewEngine(rng).NextPrice(p, 1))
}

func TestNextPriceBusyWindowBounds(t *testing.T) {
	p := &domain.Product{
		CurrentPrice:          400,
		MinPrice:              300,
		MaxPrice:              600,
		PricingMode:           domain.PricingFull,
		IncreaseBasePercent:   2,
		IncreaseRandomPercent: 1,
		DecreaseBasePercent:   1,
	}

	for seed := int64(0); seed < 20; seed++ {
		next := NewEngine(rand.New(rand.NewSource(seed))).NextPrice(p, 3)
		assert.Greater(t, next, int64(400), "seed %d", seed)
		assert.LessOrEqual(t, next, int64(412), "seed %d", seed)
	}

	p.PricingMode = domain.PricingUp
	assert.Equal(t, int64(400), NewEngine(rand.New(rand.NewSource(1))).NextPrice(p, 0))
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, domain.TrendUp, TrendFor(100, 110, domain.TrendDown))
	assert.Equal(t, domain.TrendDown, TrendFor(100, 90, domain.TrendUp))
	assert.Equal(t, domain.TrendUp, TrendFor(100, 100, domain.TrendUp), "unchanged price keeps previous trend")
	assert.Equal(t, domain.TrendDown, TrendFor(100, 100, domain.TrendDown))
}

func TestSalesThisWindow(t *testing.T) {
	p := &domain.Product{SalesCount: 10, SalesCountAtLastUpdate: 4}
	assert.Equal(t, int64(6), SalesThisWindow(p))

	p.ManualSalesAdjustment = -6
	assert.Equal(t, int64(0), SalesThisWindow(p))

	p.ManualSalesAdjustment = 3
	assert.Equal(t, int64(9), SalesThisWindow(p))
}
