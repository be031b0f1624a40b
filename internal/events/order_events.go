package events

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"

	eventVersion = 1
)

// PlacedItem is one order line in an OrderPlaced payload.
type PlacedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderPlacedPayload describes a committed order.
type OrderPlacedPayload struct {
	OrderID       string              `json:"orderId"`
	CustomerID    string              `json:"customerId"`
	Currency      string              `json:"currency"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Items         []PlacedItem        `json:"items"`
	ShippingFee   decimal.Decimal     `json:"shippingFee"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	OrderDate     time.Time           `json:"orderDate"`
}

// StatusChangedPayload describes one accepted status transition.
type StatusChangedPayload struct {
	OrderID   string            `json:"orderId"`
	From      model.OrderStatus `json:"from"`
	To        model.OrderStatus `json:"to"`
	Notes     string            `json:"notes,omitempty"`
	ChangedBy string            `json:"changedBy"`
	ChangedAt time.Time         `json:"changedAt"`
}

// NewOrderPlaced builds the outbox event for a freshly committed order.
func NewOrderPlaced(order *model.Order, items []model.OrderItem) (*model.OutboxEvent, error) {
	placed := make([]PlacedItem, 0, len(items))
	for _, it := range items {
		placed = append(placed, PlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}

	return newOutboxEvent(OrderPlaced, order.ID, order.CreatedAt, OrderPlacedPayload{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
		Items:         placed,
		ShippingFee:   order.ShippingFee,
		TotalAmount:   order.TotalAmount,
		OrderDate:     order.CreatedAt,
	})
}

// NewStatusChanged builds the outbox event for an accepted transition.
func NewStatusChanged(from model.OrderStatus, record *model.OrderStatusRecord, changedBy string) (*model.OutboxEvent, error) {
	return newOutboxEvent(OrderStatusChanged, record.OrderID, record.UpdateTime, StatusChangedPayload{
		OrderID:   record.OrderID,
		From:      from,
		To:        record.Status,
		Notes:     record.Notes,
		ChangedBy: changedBy,
		ChangedAt: record.UpdateTime,
	})
}

func newOutboxEvent[T any](name, aggregateID string, occurredAt time.Time, payload T) (*model.OutboxEvent, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	body, err := json.Marshal(Envelope[T]{
		EventName:    name,
		EventVersion: eventVersion,
		EventID:      id.String(),
		Producer:     producerName,
		PartitionKey: aggregateID,
		OccurredAt:   occurredAt.UTC(),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}

	return &model.OutboxEvent{
		ID:          id,
		AggregateID: aggregateID,
		EventType:   name,
		Payload:     body,
		CreatedAt:   occurredAt,
	}, nil
}
