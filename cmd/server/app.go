package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/calebsw/lettermill-api/internal/config"
	"github.com/calebsw/lettermill-api/internal/delivery"
	"github.com/calebsw/lettermill-api/internal/platform/metrics"
	"github.com/calebsw/lettermill-api/internal/platform/postgres"
	"github.com/calebsw/lettermill-api/internal/platform/sendgrid"
	"github.com/calebsw/lettermill-api/internal/render"
	"github.com/calebsw/lettermill-api/internal/scheduler"
	"github.com/calebsw/lettermill-api/internal/service"
	"github.com/calebsw/lettermill-api/internal/subscription"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

// application holds the wired-up dependencies of the running server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	subscriptionService *subscription.Service
	trackingService     *tracking.Service
	campaignService     service.CampaignService
	scheduler           *scheduler.Scheduler
	cronRunner          *scheduler.CronRunner
}

// newApplication wires the stores, services, and scheduler from
// configuration.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	contactStore := postgres.NewPostgresContactStore(db)
	campaignStore := postgres.NewPostgresCampaignStore(db)
	taskStore := postgres.NewPostgresTaskStore(db)
	clickStore := postgres.NewPostgresClickStore(db)

	subscriptionService, err := subscription.NewService(contactStore, cfg.Email.PublicBaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription service: %w", err)
	}

	trackingService, err := tracking.NewService(clickStore, cfg.Email.PublicBaseURL, m, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking service: %w", err)
	}

	campaignService, err := service.NewCampaignService(db, campaignStore, taskStore, contactStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign service: %w", err)
	}

	// Without a SendGrid key, sends are logged instead of delivered.
	// Useful for local development against a real database.
	var sender delivery.EmailSender
	if cfg.Email.SendGridAPIKey != "" {
		sender = sendgrid.NewSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, logger)
	} else {
		logger.Warn("no SendGrid API key configured, using console sender")
		sender = delivery.NewConsoleSender(logger)
	}

	dispatchScheduler, err := scheduler.New(
		taskStore,
		campaignStore,
		render.NewPlaceholderRenderer(),
		sender,
		trackingService,
		subscriptionService,
		scheduler.Config{
			StaleAfter:      time.Duration(cfg.Scheduler.StaleAfterMinutes) * time.Minute,
			SendConcurrency: cfg.Scheduler.SendConcurrency,
			SendTimeout:     time.Duration(cfg.Scheduler.SendTimeoutSeconds) * time.Second,
		},
		m,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	cronRunner, err := scheduler.NewCronRunner(dispatchScheduler, cfg.Scheduler.CronSpec, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler cron: %w", err)
	}

	return &application{
		config:              cfg,
		logger:              logger,
		db:                  db,
		registry:            registry,
		metrics:             m,
		subscriptionService: subscriptionService,
		trackingService:     trackingService,
		campaignService:     campaignService,
		scheduler:           dispatchScheduler,
		cronRunner:          cronRunner,
	}, nil
}
