package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/mappers"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

var activeStatuses = []string{string(domain.StatusCountdown), string(domain.StatusPlaying)}

var nonTerminalStatuses = []string{
	string(domain.StatusScheduled),
	string(domain.StatusCountdown),
	string(domain.StatusPlaying),
}

type DefaultCampaignRepository struct {
	DB *gorm.DB
}

func NewDefaultCampaignRepository(db *gorm.DB) *DefaultCampaignRepository {
	return &DefaultCampaignRepository{DB: db}
}

func (r *DefaultCampaignRepository) GetByID(ctx context.Context, id string) (*domain.VideoCampaign, error) {
	var m models.VideoCampaignModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return mappers.ToDomainCampaign(&m), nil
}

func (r *DefaultCampaignRepository) Create(ctx context.Context, c *domain.VideoCampaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(mappers.ToGORMCampaign(c)).Error
}

func (r *DefaultCampaignRepository) ActiveCampaign(ctx context.Context) (*domain.VideoCampaign, error) {
	var m models.VideoCampaignModel
	err := r.DB.WithContext(ctx).
		Where("status IN ?", activeStatuses).
		Order("started_at").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainCampaign(&m), nil
}

func (r *DefaultCampaignRepository) OldestDueScheduled(ctx context.Context, now time.Time) (*domain.VideoCampaign, error) {
	var m models.VideoCampaignModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(domain.StatusScheduled), now).
		Order("scheduled_at").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainCampaign(&m), nil
}

func (r *DefaultCampaignRepository) ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]*domain.VideoCampaign, error) {
	var ms []models.VideoCampaignModel
	if err := r.DB.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("scheduled_at").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	campaigns := make([]*domain.VideoCampaign, len(ms))
	for i := range ms {
		campaigns[i] = mappers.ToDomainCampaign(&ms[i])
	}
	return campaigns, nil
}

// TransitionStatus performs the conditional promote/advance write. Zero
// affected rows means the campaign left `from` under us.
func (r *DefaultCampaignRepository) TransitionStatus(ctx context.Context, id string, from, to domain.CampaignStatus, startedAt *time.Time) error {
	updates := map[string]any{"status": string(to)}
	if startedAt != nil {
		updates["started_at"] = *startedAt
	}
	res := r.DB.WithContext(ctx).Model(&models.VideoCampaignModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCampaignConcurrentUpdate
	}
	return nil
}

// Complete finishes a playing campaign; the highlight price change rides
// in the same transaction so the two writes are observed together.
func (r *DefaultCampaignRepository) Complete(ctx context.Context, id string, completedAt time.Time, change *domain.PriceChange) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.VideoCampaignModel{}).
			Where("id = ? AND status = ?", id, string(domain.StatusPlaying)).
			Updates(map[string]any{
				"status":       string(domain.StatusCompleted),
				"completed_at": completedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCampaignConcurrentUpdate
		}
		if change != nil {
			return applyPriceChangeTx(tx, change)
		}
		return nil
	})
}

// Cancel is idempotent against terminal campaigns: they report not-found.
func (r *DefaultCampaignRepository) Cancel(ctx context.Context, id string) (*domain.VideoCampaign, error) {
	var cancelled *domain.VideoCampaign
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.VideoCampaignModel{}).
			Where("id = ? AND status IN ?", id, nonTerminalStatuses).
			Update("status", string(domain.StatusCancelled))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCampaignNotFound
		}

		var m models.VideoCampaignModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		cancelled = mappers.ToDomainCampaign(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
