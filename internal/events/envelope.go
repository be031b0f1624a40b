package events

import (
	"fmt"
	"time"
)

const producerName = "storefront"

// Envelope is the common wrapper of every event published to the broker.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

// Validate ensures the envelope carries the expected event identity.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}
