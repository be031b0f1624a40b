package checkout

import (
	"context"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Committer persists a built order as one unit of work: the header, every
// item, the initial status record and the order.placed event are written
// together or not at all.
type Committer struct {
	tx     repository.Transactor
	orders repository.OrderRepository
	outbox repository.OutboxRepository
	logger zerolog.Logger
}

// NewCommitter creates a Committer.
func NewCommitter(tx repository.Transactor, orders repository.OrderRepository, outbox repository.OutboxRepository, logger zerolog.Logger) *Committer {
	return &Committer{
		tx:     tx,
		orders: orders,
		outbox: outbox,
		logger: logger.With().Str("component", "order-commit").Logger(),
	}
}

// Commit writes order and items atomically. On any failure the store is
// left unchanged and a retryable *model.PersistenceError is returned.
func (c *Committer) Commit(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	event, err := events.NewOrderPlaced(order, items)
	if err != nil {
		return &model.PersistenceError{Op: "commit order", Err: err}
	}

	err = repository.RunInUnitOfWork(ctx, c.tx, c.logger, func(tx pgx.Tx) error {
		if err := c.orders.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		if err := c.orders.CreateOrderItems(ctx, tx, items); err != nil {
			return err
		}

		initial := &model.OrderStatusRecord{
			OrderID:    order.ID,
			Status:     order.Status,
			UpdateTime: order.CreatedAt,
			Notes:      "Order placed",
		}
		if err := c.orders.AppendStatusRecord(ctx, tx, initial); err != nil {
			return err
		}

		return c.outbox.Enqueue(ctx, tx, event)
	})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Int("item_count", len(items)).
			Msg("order commit rolled back")
		return &model.PersistenceError{Op: "commit order", Err: err}
	}

	c.logger.Info().
		Str("order_id", order.ID).
		Str("customer_id", order.CustomerID).
		Int("item_count", len(items)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("order committed")

	return nil
}
