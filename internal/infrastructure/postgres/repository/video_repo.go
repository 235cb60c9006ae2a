package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/mappers"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

type DefaultVideoRepository struct {
	DB *gorm.DB
}

func NewDefaultVideoRepository(db *gorm.DB) *DefaultVideoRepository {
	return &DefaultVideoRepository{DB: db}
}

func (r *DefaultVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	var m models.VideoModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return mappers.ToDomainVideo(&m), nil
}

func (r *DefaultVideoRepository) Create(ctx context.Context, v *domain.Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = domain.VideoPending
	}
	return r.DB.WithContext(ctx).Create(mappers.ToGORMVideo(v)).Error
}

func (r *DefaultVideoRepository) UpdateStatus(ctx context.Context, id string, status domain.VideoStatus, url string, durationSeconds int, errorMessage string) error {
	updates := map[string]any{
		"status":        string(status),
		"error_message": errorMessage,
	}
	if url != "" {
		updates["url"] = url
	}
	if durationSeconds > 0 {
		updates["duration_seconds"] = durationSeconds
	}
	res := r.DB.WithContext(ctx).Model(&models.VideoModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}
