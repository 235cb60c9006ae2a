package postgres

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velmark/vitrine-display-service/internal/config"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/models"
)

func MustInitDB(cfg *config.DisplayConfig) *gorm.DB {
	dsn := cfg.DisplayDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ProductModel{},
		&models.PriceHistoryModel{},
		&models.VideoModel{},
		&models.VideoCampaignModel{},
		&models.QuickAdModel{},
		&models.SettingModel{},
		&jobqueue.Job{},
	)

	return db
}
