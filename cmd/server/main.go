// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/config"
	"github.com/unclebandit/followup-tracker/internal/controller"
	"github.com/unclebandit/followup-tracker/internal/db"
	"github.com/unclebandit/followup-tracker/internal/logging"
	"github.com/unclebandit/followup-tracker/internal/queue"
	"github.com/unclebandit/followup-tracker/internal/repository"
	"github.com/unclebandit/followup-tracker/internal/scheduler"
	"github.com/unclebandit/followup-tracker/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Init(context.Background(), cfg.DatabaseURL, cfg.DBMaxOpenConns, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	followUpRepo := &repository.FollowUpRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	companyRepo := &repository.CompanyRepository{DB: conn}
	linkRepo := &repository.CampaignContactRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}

	opts := service.Options{
		Location:    cfg.Location,
		StepTimeout: cfg.StepTimeout,
		Logger:      logger,
	}

	campaignService := &service.CampaignService{
		Options:        opts,
		CampaignRepo:   campaignRepo,
		FollowUpRepo:   followUpRepo,
		ContactRepo:    contactRepo,
		CompanyRepo:    companyRepo,
		LinkRepo:       linkRepo,
		SettingsRepo:   settingsRepo,
		DefaultCadence: &cfg.DefaultCadence,
	}
	followUpService := &service.FollowUpService{
		Options:      opts,
		CampaignRepo: campaignRepo,
		FollowUpRepo: followUpRepo,
	}
	settingsService := &service.SettingsService{
		Options:        opts,
		SettingsRepo:   settingsRepo,
		DefaultCadence: &cfg.DefaultCadence,
	}
	directoryService := &service.DirectoryService{
		Options:     opts,
		ContactRepo: contactRepo,
		CompanyRepo: companyRepo,
	}

	q := queue.NewInMemoryQueue(logger)
	if err := queue.StartDueNoticeSubscriber(q, logger); err != nil {
		logger.Fatal("failed to subscribe to due notices", zap.Error(err))
	}

	sched := scheduler.New(&service.Worker{
		Options:   opts,
		Owners:    campaignRepo,
		Campaigns: campaignService,
		Queue:     q,
	}, cfg.Location, 10*time.Minute, logger)
	if err := sched.Start(cfg.DueScanCron); err != nil {
		logger.Fatal("invalid DUE_SCAN_CRON", zap.String("spec", cfg.DueScanCron), zap.Error(err))
	}

	router := controller.NewRouter(controller.Controllers{
		Campaigns: &controller.CampaignController{CampaignService: campaignService, Logger: logger},
		FollowUps: &controller.FollowUpController{FollowUpService: followUpService, Logger: logger},
		Directory: &controller.DirectoryController{DirectoryService: directoryService, Logger: logger},
		Settings:  &controller.SettingsController{SettingsService: settingsService, Logger: logger},
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("timezone", cfg.Location.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	q.Wait()
}
