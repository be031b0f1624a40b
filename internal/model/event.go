package model

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event recorded in the same transaction as the
// change it describes and relayed to the message broker afterwards.
type OutboxEvent struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AggregateID string     `json:"aggregateId" db:"aggregate_id"`
	EventType   string     `json:"eventType" db:"event_type"`
	Payload     []byte     `json:"payload" db:"payload"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
}
