package events

import (
	"context"
	"time"

	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Relay moves committed outbox events to the publisher.
type Relay struct {
	repo      repository.OutboxRepository
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

// NewRelay creates an outbox relay polling every interval.
func NewRelay(repo repository.OutboxRepository, publisher Publisher, interval time.Duration, batchSize int, logger zerolog.Logger) *Relay {
	return &Relay{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "outbox-relay").Logger(),
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("outbox relay started")

	for {
		select {
		case <-ticker.C:
			if _, err := r.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error().Err(err).Msg("failed to fetch outbox events")
			}
		case <-ctx.Done():
			r.logger.Info().Msg("outbox relay stopped")
			return
		}
	}
}

// ProcessOnce publishes one batch in creation order and returns how many
// events were published and marked. The batch stops at the first failure so
// later events never overtake it; the failed event is retried on the next poll.
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	pending, err := r.repo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range pending {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Warn().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			break
		}

		if err := r.repo.MarkPublished(ctx, event.ID); err != nil {
			r.logger.Warn().Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark event published")
			break
		}
		published++
	}

	if published > 0 {
		r.logger.Debug().Int("count", published).Msg("outbox events relayed")
	}

	return published, nil
}
