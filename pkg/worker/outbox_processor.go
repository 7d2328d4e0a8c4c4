package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/pkg/logger"
	"github.com/anshuman/hospital-api/pkg/messaging"
	"github.com/anshuman/hospital-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "Failed to process events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEventsWithLock(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "Failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
			continue
		}
	}

	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	tx, err := p.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := p.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		if markErr := p.markFailed(ctx, tx, event, err); markErr != nil {
			return markErr
		}
		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit failure status: %w", commitErr)
		}
		return err
	}

	if err := p.repo.UpdateStatusTx(ctx, tx, event.ID, string(model.OutboxStatusProcessed), nil, nil); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit processed status: %w", err)
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return nil
}

// markFailed either schedules a retry with exponential backoff or, once the
// attempt budget is exhausted, moves the event to the dead letter table.
func (p *OutboxProcessor) markFailed(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent, cause error) error {
	errStr := cause.Error()

	if event.RetryCount+1 >= p.config.RetryAttempts {
		if err := p.repo.MoveToDeadLetter(ctx, tx, event); err != nil {
			return fmt.Errorf("failed to move event to dead letter: %w", err)
		}
		return p.repo.UpdateStatusTx(ctx, tx, event.ID, string(model.OutboxStatusFailed), &errStr, nil)
	}

	p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
	retryAt := time.Now().Add(p.config.RetryDelay * time.Duration(1<<uint(event.RetryCount)))
	return p.repo.UpdateStatusTx(ctx, tx, event.ID, string(model.OutboxStatusPending), &errStr, &retryAt)
}
