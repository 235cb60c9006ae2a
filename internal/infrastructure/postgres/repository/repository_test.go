package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProductModel{},
		&models.PriceHistoryModel{},
		&models.VideoCampaignModel{},
		&models.VideoModel{},
		&models.QuickAdModel{},
		&models.SettingModel{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) *domain.Product {
	t.Helper()
	repo := NewDefaultProductRepository(db)
	p := &domain.Product{
		Name:         "espresso",
		BasePrice:    800,
		CurrentPrice: 800,
		MinPrice:     500,
		MaxPrice:     2000,
		PricingMode:  domain.PricingFull,
		SalesCount:   4,
		Trend:        domain.TrendUp,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func historyCount(t *testing.T, db *gorm.DB, productID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.PriceHistoryModel{}).
		Where("product_id = ?", productID).Count(&count).Error)
	return count
}

func TestApplyRecomputationWithoutPriceChange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultProductRepository(db)
	p := seedProduct(t, db)

	require.NoError(t, db.Model(&models.ProductModel{}).Where("id = ?", p.ID).
		Update("manual_sales_adjustment", 3).Error)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ApplyRecomputation(ctx, &domain.PriceRecomputation{
		ProductID:     p.ID,
		NewPrice:      800,
		PreviousPrice: 800,
		Trend:         domain.TrendUp,
		PriceChanged:  false,
		SalesBaseline: 4,
		UpdatedAt:     now,
	}))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800), got.CurrentPrice)
	assert.Equal(t, int64(4), got.SalesCountAtLastUpdate, "baseline resets even when the price holds")
	assert.Zero(t, got.ManualSalesAdjustment, "manual adjustment is spent by the pass")
	assert.Zero(t, historyCount(t, db, p.ID), "no audit row for an unchanged price")
}

func TestApplyRecomputationWithPriceChange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultProductRepository(db)
	p := seedProduct(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ApplyRecomputation(ctx, &domain.PriceRecomputation{
		ProductID:     p.ID,
		NewPrice:      824,
		PreviousPrice: 800,
		Trend:         domain.TrendUp,
		PriceChanged:  true,
		SalesBaseline: 4,
		UpdatedAt:     now,
	}))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(824), got.CurrentPrice)
	assert.Equal(t, int64(800), got.PreviousPrice)
	assert.Equal(t, int64(1), historyCount(t, db, p.ID))
}

func TestApplyRecomputationUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultProductRepository(db)

	err := repo.ApplyRecomputation(context.Background(), &domain.PriceRecomputation{
		ProductID: "00000000-0000-0000-0000-000000000000",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestApplyPriceChangeKeepsBaseline(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultProductRepository(db)
	p := seedProduct(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ApplyPriceChange(ctx, &domain.PriceChange{
		ProductID:     p.ID,
		NewPrice:      500,
		PreviousPrice: 800,
		Trend:         domain.TrendDown,
		Timestamp:     now,
	}))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.CurrentPrice)
	assert.Equal(t, domain.TrendDown, got.Trend)
	assert.Zero(t, got.SalesCountAtLastUpdate, "promotions are not recomputations")
	assert.Equal(t, int64(1), historyCount(t, db, p.ID))
}

func seedCampaign(t *testing.T, db *gorm.DB, status domain.CampaignStatus, startedAt *time.Time) *domain.VideoCampaign {
	t.Helper()
	repo := NewDefaultCampaignRepository(db)
	c := &domain.VideoCampaign{
		VideoID:          "11111111-1111-1111-1111-111111111111",
		ScheduledAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		CountdownSeconds: 10,
		Status:           status,
		StartedAt:        startedAt,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestTransitionStatusConditionalWrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultCampaignRepository(db)
	c := seedCampaign(t, db, domain.StatusScheduled, nil)

	startedAt := time.Date(2025, 6, 1, 9, 1, 0, 0, time.UTC)
	require.NoError(t, repo.TransitionStatus(ctx, c.ID, domain.StatusScheduled, domain.StatusCountdown, &startedAt))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCountdown, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.Equal(t, startedAt.Unix(), got.StartedAt.Unix())

	// A second promoter loses the race.
	err = repo.TransitionStatus(ctx, c.ID, domain.StatusScheduled, domain.StatusCountdown, &startedAt)
	assert.ErrorIs(t, err, domain.ErrCampaignConcurrentUpdate)
}

// The migration's partial unique index is the schema-level fence behind
// the conditional writes: at most one campaign row may be countdown or
// playing, regardless of which of the two statuses each row holds.
func TestActiveCampaignIndexAdmitsSingleActiveRow(t *testing.T) {
	db := newTestDB(t)

	raw, err := os.ReadFile("../../../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	var stmt string
	for _, s := range strings.Split(string(raw), ";") {
		if strings.Contains(s, "uniq_active_campaign") {
			stmt = s
			break
		}
	}
	require.NotEmpty(t, stmt)
	require.NoError(t, db.Exec(stmt).Error)

	startedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seedCampaign(t, db, domain.StatusCountdown, &startedAt)

	repo := NewDefaultCampaignRepository(db)
	err = repo.Create(context.Background(), &domain.VideoCampaign{
		VideoID:     "22222222-2222-2222-2222-222222222222",
		ScheduledAt: startedAt,
		Status:      domain.StatusPlaying,
		StartedAt:   &startedAt,
	})
	require.Error(t, err, "countdown and playing rows must not coexist")

	// Terminal rows are outside the index predicate.
	seedCampaign(t, db, domain.StatusCompleted, &startedAt)
	seedCampaign(t, db, domain.StatusCancelled, &startedAt)
}

func TestCompleteAppliesHighlightAtomically(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaigns := NewDefaultCampaignRepository(db)
	products := NewDefaultProductRepository(db)
	p := seedProduct(t, db)

	startedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c := seedCampaign(t, db, domain.StatusPlaying, &startedAt)

	completedAt := startedAt.Add(time.Minute)
	require.NoError(t, campaigns.Complete(ctx, c.ID, completedAt, &domain.PriceChange{
		ProductID:     p.ID,
		NewPrice:      600,
		PreviousPrice: 800,
		Trend:         domain.TrendDown,
		Timestamp:     completedAt,
	}))

	got, err := campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	updated, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), updated.CurrentPrice)
	assert.Equal(t, int64(1), historyCount(t, db, p.ID))

	// Completing again is a concurrent-update signal, not a double apply.
	err = campaigns.Complete(ctx, c.ID, completedAt, nil)
	assert.ErrorIs(t, err, domain.ErrCampaignConcurrentUpdate)
}

func TestCompleteRollsBackWhenPriceWriteFails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	campaigns := NewDefaultCampaignRepository(db)

	startedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c := seedCampaign(t, db, domain.StatusPlaying, &startedAt)

	err := campaigns.Complete(ctx, c.ID, startedAt.Add(time.Minute), &domain.PriceChange{
		ProductID: "00000000-0000-0000-0000-000000000000",
		NewPrice:  600,
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	got, err := campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaying, got.Status, "status write must roll back with the price write")
}

func TestCancelNonTerminalAndTerminal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultCampaignRepository(db)
	c := seedCampaign(t, db, domain.StatusCountdown, nil)

	cancelled, err := repo.Cancel(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = repo.Cancel(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound, "terminal campaigns read as not found")

	_, err = repo.Cancel(ctx, "22222222-2222-2222-2222-222222222222")
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestActiveCampaignPrefersOldestStart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultCampaignRepository(db)

	early := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)
	seedCampaign(t, db, domain.StatusCompleted, nil)
	b := seedCampaign(t, db, domain.StatusPlaying, &late)
	a := seedCampaign(t, db, domain.StatusCountdown, &early)

	active, err := repo.ActiveCampaign(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, a.ID, active.ID)
	assert.NotEqual(t, b.ID, active.ID)
}

func TestOldestDueScheduled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultCampaignRepository(db)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	newer := seedCampaign(t, db, domain.StatusScheduled, nil)
	older := seedCampaign(t, db, domain.StatusScheduled, nil)
	require.NoError(t, db.Model(&models.VideoCampaignModel{}).Where("id = ?", newer.ID).
		Update("scheduled_at", now.Add(-time.Minute)).Error)
	require.NoError(t, db.Model(&models.VideoCampaignModel{}).Where("id = ?", older.ID).
		Update("scheduled_at", now.Add(-time.Hour)).Error)

	due, err := repo.OldestDueScheduled(ctx, now)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, older.ID, due.ID)

	none, err := repo.OldestDueScheduled(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSettingsDefaultAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultSettingsRepository(db)

	pi, err := repo.GetPriceInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultPriceIntervalMinutes, pi.Minutes)

	require.NoError(t, repo.SetPriceInterval(ctx, domain.PriceInterval{Minutes: 25}))
	pi, err = repo.GetPriceInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, pi.Minutes)

	require.NoError(t, repo.SetPriceInterval(ctx, domain.PriceInterval{Minutes: 5}))
	pi, err = repo.GetPriceInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, pi.Minutes)

	err = repo.SetPriceInterval(ctx, domain.PriceInterval{Minutes: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestPriceHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	products := NewDefaultProductRepository(db)
	history := NewDefaultPriceHistoryRepository(db)
	p := seedProduct(t, db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, price := range []int64{820, 840, 830} {
		require.NoError(t, products.ApplyPriceChange(ctx, &domain.PriceChange{
			ProductID:     p.ID,
			NewPrice:      price,
			PreviousPrice: 800,
			Trend:         domain.TrendUp,
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := history.ListByProduct(ctx, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(830), entries[0].Price)
	assert.Equal(t, int64(840), entries[1].Price)
}

func TestQuickAdMarkPlayed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDefaultQuickAdRepository(db)

	ad := &domain.QuickAd{Name: "banner", Text: "welcome", DurationSeconds: 20}
	require.NoError(t, repo.Create(ctx, ad))

	playedAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkPlayed(ctx, ad.ID, playedAt, nil))

	got, err := repo.GetByID(ctx, ad.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastPlayedAt)
	assert.Equal(t, playedAt.Unix(), got.LastPlayedAt.Unix())

	assert.ErrorIs(t, repo.MarkPlayed(ctx, "33333333-3333-3333-3333-333333333333", playedAt, nil), domain.ErrQuickAdNotFound)
}

func TestQuickAdMarkPlayedAppliesPromoPrice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ads := NewDefaultQuickAdRepository(db)
	products := NewDefaultProductRepository(db)
	p := seedProduct(t, db)

	ad := &domain.QuickAd{Name: "espresso deal", ProductID: &p.ID, DurationSeconds: 20}
	require.NoError(t, ads.Create(ctx, ad))

	playedAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, ads.MarkPlayed(ctx, ad.ID, playedAt, &domain.PriceChange{
		ProductID:     p.ID,
		NewPrice:      600,
		PreviousPrice: 800,
		Trend:         domain.TrendDown,
		Timestamp:     playedAt,
	}))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.CurrentPrice)
	assert.Equal(t, int64(800), got.PreviousPrice)
	assert.Equal(t, int64(1), historyCount(t, db, p.ID))
}

func TestQuickAdMarkPlayedRollsBackOnFailedPriceWrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ads := NewDefaultQuickAdRepository(db)

	ad := &domain.QuickAd{Name: "espresso deal", DurationSeconds: 20}
	require.NoError(t, ads.Create(ctx, ad))

	playedAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	err := ads.MarkPlayed(ctx, ad.ID, playedAt, &domain.PriceChange{
		ProductID: "44444444-4444-4444-4444-444444444444",
		NewPrice:  600,
		Timestamp: playedAt,
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	got, err := ads.GetByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastPlayedAt, "failed price write must roll back the play stamp")
}
