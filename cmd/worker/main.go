// cmd/worker/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/config"
	"github.com/unclebandit/followup-tracker/internal/db"
	"github.com/unclebandit/followup-tracker/internal/logging"
	"github.com/unclebandit/followup-tracker/internal/queue"
	"github.com/unclebandit/followup-tracker/internal/repository"
	"github.com/unclebandit/followup-tracker/internal/scheduler"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// The worker runs the due scan on its cron schedule and publishes notices to
// RabbitMQ. It also consumes them and logs each one; downstream delivery
// services can bind to the same durable queue instead.
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

	q, err := queue.NewAMQPQueue(cfg.AMQPURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	if err := queue.StartDueNoticeSubscriber(q, logger); err != nil {
		logger.Fatal("failed to register consumer", zap.Error(err))
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	opts := service.Options{
		Location:    cfg.Location,
		StepTimeout: cfg.StepTimeout,
		Logger:      logger,
	}
	worker := &service.Worker{
		Options: opts,
		Owners:  campaignRepo,
		Campaigns: &service.CampaignService{
			Options:        opts,
			CampaignRepo:   campaignRepo,
			FollowUpRepo:   &repository.FollowUpRepository{DB: conn},
			LinkRepo:       &repository.CampaignContactRepository{DB: conn},
			DefaultCadence: &cfg.DefaultCadence,
		},
		Queue: q,
	}

	sched := scheduler.New(worker, cfg.Location, 10*time.Minute, logger)
	if err := sched.Start(cfg.DueScanCron); err != nil {
		logger.Fatal("invalid DUE_SCAN_CRON", zap.String("spec", cfg.DueScanCron), zap.Error(err))
	}

	logger.Info("worker running, waiting for the next scan", zap.String("spec", cfg.DueScanCron))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(ctx)
	logger.Info("worker stopped")
}
