package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// outboxRepository implements OutboxRepository using PostgreSQL.
type outboxRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewOutboxRepository creates a new PostgreSQL-backed outbox repository.
func NewOutboxRepository(db DB, logger zerolog.Logger) OutboxRepository {
	return &outboxRepository{
		db:     db,
		logger: logger.With().Str("repository", "outbox").Logger(),
	}
}

// Enqueue records an event inside the caller's transaction.
func (r *outboxRepository) Enqueue(ctx context.Context, tx pgx.Tx, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, event.ID, event.AggregateID, event.EventType, event.Payload, event.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("failed to enqueue outbox event")
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	return nil
}

// FetchUnpublished returns up to limit unpublished events, oldest first.
func (r *outboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch outbox events")
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	defer rows.Close()

	var events []model.OutboxEvent
	for rows.Next() {
		var e model.OutboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox events: %w", err)
	}

	return events, nil
}

// MarkPublished stamps an event as relayed.
func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox_events SET published_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("event_id", id.String()).Msg("failed to mark outbox event published")
		return fmt.Errorf("failed to mark outbox event published: %w", err)
	}
	return nil
}
