package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anshuman/hospital-api/internal/config"
	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/repository/postgres"
	"github.com/anshuman/hospital-api/pkg/logger"
	"github.com/anshuman/hospital-api/pkg/messaging/redis"
	"github.com/anshuman/hospital-api/pkg/metrics"
	"github.com/anshuman/hospital-api/pkg/worker"
)

// tunables are worker-only knobs read from the environment so the worker
// can be scaled independently of the YAML config shared with the API.
type tunables struct {
	BatchSize     int           `envconfig:"BATCH_SIZE" default:"0"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"0s"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"0"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"0s"`
	HealthPort    string        `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env tunables
	if err := envconfig.Process("worker", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to read worker environment")
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	lg := &logger.Logger{ZL: log.Logger}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		lg.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		lg.Fatal(err, "Failed to create Redis broker")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)
	subscriptionRepo := postgres.NewSubscriptionRepository(baseRepo)
	hospitalRepo := postgres.NewHospitalRepository(baseRepo)
	userRepo := postgres.NewUserRepository(baseRepo)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		processorConfig(cfg.Outbox, env),
		lg,
		metrics.NewMetrics("hospital_api", "worker"),
	)

	notifier := worker.NewExpiryNotifier(
		subscriptionRepo,
		hospitalRepo,
		userRepo,
		outboxRepo,
		email.NewService(cfg.SMTP, log.Logger),
		worker.ExpiryNotifierConfig{
			Interval: cfg.Notifier.Interval,
			LeadDays: cfg.Notifier.LeadDays,
		},
		lg,
	)

	setupHealthCheck(lg, env.HealthPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		lg.Info("Shutting down...")
		cancel()
	}()

	go notifier.Start(ctx)
	processor.Start(ctx)
}

// processorConfig starts from the YAML outbox section and lets environment
// tunables override individual fields.
func processorConfig(base config.OutboxConfig, env tunables) worker.OutboxProcessorConfig {
	cfg := worker.OutboxProcessorConfig{
		BatchSize:     base.BatchSize,
		PollInterval:  base.PollInterval,
		RetryAttempts: base.RetryAttempts,
		RetryDelay:    base.RetryDelay,
	}
	if env.BatchSize > 0 {
		cfg.BatchSize = env.BatchSize
	}
	if env.PollInterval > 0 {
		cfg.PollInterval = env.PollInterval
	}
	if env.RetryAttempts > 0 {
		cfg.RetryAttempts = env.RetryAttempts
	}
	if env.RetryDelay > 0 {
		cfg.RetryDelay = env.RetryDelay
	}
	return cfg
}

func setupHealthCheck(lg *logger.Logger, port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			lg.ZL.Error().Err(err).Msg("Health check server failed")
			os.Exit(1)
		}
	}()
}
