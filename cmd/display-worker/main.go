package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/app/background"
	"github.com/velmark/vitrine-display-service/internal/config"
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/kafka"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/logger"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/pgnotify"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/repository"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/videogen"
	"github.com/velmark/vitrine-display-service/internal/notifications"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
	"github.com/velmark/vitrine-display-service/internal/usecase/campaign"
	"github.com/velmark/vitrine-display-service/internal/usecase/pricing"
	"github.com/velmark/vitrine-display-service/internal/usecase/video"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat, "display-worker")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Init database
	db := postgres.MustInitDB(cfg)

	displayMetrics := metrics.NewDisplayMetrics()
	clk := clock.NewRealClock()

	// Init repositories
	productRepo := repository.NewDefaultProductRepository(db)
	campaignRepo := repository.NewDefaultCampaignRepository(db)
	videoRepo := repository.NewDefaultVideoRepository(db)
	settingsRepo := repository.NewDefaultSettingsRepository(db)

	// Publisher: pg_notify always, kafka export when enabled
	var publisher domain.Publisher = pgnotify.NewPublisher(db)
	if cfg.KafkaExport.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaExport.Host, cfg.KafkaExport.Port)}
		kafkaPublisher := kafka.NewEventPublisher(brokers, cfg.KafkaExport.Topic)
		defer kafkaPublisher.Close()
		publisher = notifications.NewMultiPublisher(publisher, kafkaPublisher)
	}

	// Init usecases
	pricingUsecase := pricing.NewUsecase(productRepo, publisher, pricing.NewEngine(nil), clk, zapLogger, displayMetrics)
	campaignUsecase := campaign.NewUsecase(campaignRepo, productRepo, videoRepo, publisher, clk, zapLogger, displayMetrics)
	videoClient := videogen.NewClient(
		cfg.VideoGen.BaseURL,
		time.Duration(cfg.VideoGen.PollSeconds)*time.Second,
		time.Duration(cfg.VideoGen.TimeoutMinutes)*time.Minute,
	)
	videoUsecase := video.NewUsecase(videoRepo, videoClient, zapLogger)

	// Init job queue and worker
	queue, err := jobqueue.NewQueue(db, clk)
	if err != nil {
		zapLogger.Fatal("failed to init job queue", zap.Error(err))
	}
	worker := jobqueue.NewWorker(
		queue,
		time.Duration(cfg.Scheduler.QueuePollSeconds)*time.Second,
		time.Duration(cfg.Scheduler.RetryBackoffSeconds)*time.Second,
		zapLogger,
		displayMetrics,
	)
	worker.Register(background.TaskProcessCampaigns, func(ctx context.Context, _ json.RawMessage) error {
		return campaignUsecase.ProcessTick(ctx)
	})
	worker.Register(background.TaskUpdatePrices, func(ctx context.Context, payload json.RawMessage) error {
		var p background.UpdatePricesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return pricingUsecase.UpdateAllPrices(ctx, p.Manual)
	})
	worker.Register(background.TaskGenerateVideo, func(ctx context.Context, payload json.RawMessage) error {
		var p background.GenerateVideoPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return videoUsecase.Generate(ctx, p.VideoID)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tick producers
	scheduler := background.NewScheduler(
		queue,
		settingsRepo,
		zapLogger,
		time.Duration(cfg.Scheduler.CampaignTickSeconds)*time.Second,
		time.Duration(cfg.Scheduler.SettingsRefreshMinutes)*time.Minute,
	)
	scheduler.StartAll(ctx)

	zapLogger.Info("display worker started")
	worker.Run(ctx)
	zapLogger.Info("display worker stopped")
}
