package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

// defaultPriceIntervalMinutes applies until an admin stores a setting.
const defaultPriceIntervalMinutes = 10

type DefaultSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db}
}

func (r *DefaultSettingsRepository) GetPriceInterval(ctx context.Context) (domain.PriceInterval, error) {
	var m models.SettingModel
	err := r.DB.WithContext(ctx).First(&m, "key = ?", domain.SettingPriceInterval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.PriceInterval{Minutes: defaultPriceIntervalMinutes}, nil
	}
	if err != nil {
		return domain.PriceInterval{}, err
	}

	var pi domain.PriceInterval
	if err := json.Unmarshal([]byte(m.Value), &pi); err != nil {
		return domain.PriceInterval{}, fmt.Errorf("decoding %s setting: %w", domain.SettingPriceInterval, err)
	}
	if err := pi.Validate(); err != nil {
		return domain.PriceInterval{}, err
	}
	return pi, nil
}

func (r *DefaultSettingsRepository) SetPriceInterval(ctx context.Context, pi domain.PriceInterval) error {
	if err := pi.Validate(); err != nil {
		return err
	}
	value, err := json.Marshal(pi)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.SettingModel{
		Key:   domain.SettingPriceInterval,
		Value: string(value),
	}).Error
}
