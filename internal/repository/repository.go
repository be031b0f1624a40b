package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the read-only catalogue lookups.
type ProductRepository interface {
	// GetAll retrieves products with pagination, optionally filtered by category.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Categories lists the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
}

// OrderRepository defines the interface for order data access operations.
// Methods taking a pgx.Tx must run inside a unit of work.
type OrderRepository interface {
	// CreateOrder inserts the order header.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts all items of one order as a single batch.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// LockStatus reads the current status and holds a row lock on the order
	// until the transaction ends. Returns model.ErrOrderNotFound when absent.
	LockStatus(ctx context.Context, tx pgx.Tx, orderID string) (model.OrderStatus, error)

	// UpdateStatus sets the current status of an order.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, status model.OrderStatus) error

	// AppendStatusRecord appends one status history entry.
	AppendStatusRecord(ctx context.Context, tx pgx.Tx, record *model.OrderStatusRecord) error

	// GetByID retrieves an order by its ID along with its items.
	// Returns nil, nil, nil when the order does not exist.
	GetByID(ctx context.Context, id string) (*model.Order, []model.OrderItem, error)

	// List retrieves order headers, newest first.
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// StatusHistory lists the status records of an order, oldest first.
	StatusHistory(ctx context.Context, orderID string) ([]model.OrderStatusRecord, error)
}

// OrderFilter narrows List. Empty fields do not filter.
type OrderFilter struct {
	CustomerID string
	Status     model.OrderStatus
	Limit      int
	Offset     int
}

// OutboxRepository stores domain events for asynchronous relay.
type OutboxRepository interface {
	// Enqueue records an event inside the caller's transaction.
	Enqueue(ctx context.Context, tx pgx.Tx, event *model.OutboxEvent) error

	// FetchUnpublished returns up to limit unpublished events, oldest first.
	FetchUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error)

	// MarkPublished stamps an event as relayed.
	MarkPublished(ctx context.Context, id uuid.UUID) error
}
