package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/multiclinicas/clinic-api/internal/config"
	"github.com/multiclinicas/clinic-api/internal/email"
	"github.com/multiclinicas/clinic-api/internal/notification"
	"github.com/multiclinicas/clinic-api/internal/repository/postgres"
	"github.com/multiclinicas/clinic-api/pkg/logger"
	redisbroker "github.com/multiclinicas/clinic-api/pkg/messaging/redis"
	"github.com/multiclinicas/clinic-api/pkg/metrics"
	"github.com/multiclinicas/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)
	patientRepo := postgres.NewPatientRepository(base)

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	lg := logger.NewLogger(nil)
	m := metrics.NewMetrics("clinic_worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}, lg, m)

	notifier := notification.NewNotifier(broker, patientRepo, email.NewSMTPService(cfg.SMTP), lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	if err := notifier.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start notifier")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker...")
	cancel()
}
