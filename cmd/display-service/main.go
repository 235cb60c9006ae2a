package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/config"
	httpdelivery "github.com/velmark/vitrine-display-service/internal/delivery/http"
	"github.com/velmark/vitrine-display-service/internal/delivery/http/handlers"
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/kafka"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/logger"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/metrics"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/migrate"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/pgnotify"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/postgres/repository"
	"github.com/velmark/vitrine-display-service/internal/notifications"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
	"github.com/velmark/vitrine-display-service/internal/usecase/campaign"
	"github.com/velmark/vitrine-display-service/internal/usecase/quickad"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat, "display-service")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.Migrations.Path != "" {
		if err := migrate.RunMigrations(db, cfg.Migrations.Path, zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	displayMetrics := metrics.NewDisplayMetrics()
	clk := clock.NewRealClock()

	// Init repositories
	productRepo := repository.NewDefaultProductRepository(db)
	historyRepo := repository.NewDefaultPriceHistoryRepository(db)
	campaignRepo := repository.NewDefaultCampaignRepository(db)
	quickAdRepo := repository.NewDefaultQuickAdRepository(db)
	videoRepo := repository.NewDefaultVideoRepository(db)
	settingsRepo := repository.NewDefaultSettingsRepository(db)

	// Init job queue (write side only; the worker process drains it)
	queue, err := jobqueue.NewQueue(db, clk)
	if err != nil {
		zapLogger.Fatal("failed to init job queue", zap.Error(err))
	}

	// Notification hub: database relay fans out into per-client SSE streams
	hub := notifications.NewHub(
		time.Duration(cfg.Notifications.KeepaliveSeconds)*time.Second,
		cfg.Notifications.ClientBuffer,
		zapLogger,
		displayMetrics,
	)
	listener := pgnotify.NewListener(
		cfg.DisplayDB.Dsn,
		[]string{domain.ChannelCampaignUpdate, domain.ChannelPriceUpdate},
		hub,
		zapLogger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := listener.Start(ctx); err != nil {
			zapLogger.Error("notification listener stopped", zap.Error(err))
		}
	}()

	// Publisher: pg_notify always, kafka export when enabled
	var publisher domain.Publisher = pgnotify.NewPublisher(db)
	if cfg.KafkaExport.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaExport.Host, cfg.KafkaExport.Port)}
		kafkaPublisher := kafka.NewEventPublisher(brokers, cfg.KafkaExport.Topic)
		defer kafkaPublisher.Close()
		publisher = notifications.NewMultiPublisher(publisher, kafkaPublisher)
	}

	// Init usecases
	campaignUsecase := campaign.NewUsecase(campaignRepo, productRepo, videoRepo, publisher, clk, zapLogger, displayMetrics)
	quickAdUsecase := quickad.NewUsecase(quickAdRepo, campaignRepo, productRepo, publisher, clk, zapLogger, displayMetrics)

	// HTTP server
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	httpdelivery.Setup(r, httpdelivery.Handlers{
		Stream:    handlers.NewStreamHandler(hub, zapLogger),
		State:     handlers.NewStateHandler(campaignRepo, quickAdRepo, productRepo, videoRepo, clk),
		Products:  handlers.NewProductHandler(productRepo),
		Campaigns: handlers.NewCampaignHandler(campaignUsecase, campaignRepo),
		QuickAds:  handlers.NewQuickAdHandler(quickAdUsecase),
		Videos:    handlers.NewVideoHandler(videoRepo, queue),
		Pricing:   handlers.NewPricingHandler(queue, settingsRepo, historyRepo),
		Logger:    zapLogger,
	})

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	zapLogger.Info("display service listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zapLogger.Fatal("http server stopped", zap.Error(err))
	}
}
