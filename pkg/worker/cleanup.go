package worker

import (
	"context"
	"time"

	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/pkg/logger"
)

// OutboxCleaner deletes processed outbox rows past their retention window.
type OutboxCleaner struct {
	repo      repository.OutboxRepository
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
}

func NewOutboxCleaner(repo repository.OutboxRepository, retention, interval time.Duration, logger *logger.Logger) *OutboxCleaner {
	return &OutboxCleaner{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

func (c *OutboxCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("Starting outbox cleaner")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Shutting down outbox cleaner")
			return
		case <-ticker.C:
			deleted, err := c.repo.DeleteProcessedBefore(ctx, time.Now().Add(-c.retention))
			if err != nil {
				c.logger.Error(err, "Failed to clean outbox")
				continue
			}
			if deleted > 0 {
				c.logger.Info("Cleaned processed outbox events", "deleted", deleted)
			}
		}
	}
}
