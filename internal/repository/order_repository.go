package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const orderColumns = `order_id, customer_id, customer_name, customer_email, customer_phone,
		shipping_address, total_amount, shipping_fee, currency, payment_method, status, order_date`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db DB, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
		order.TotalAmount,
		order.ShippingFee,
		order.Currency,
		string(order.PaymentMethod),
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// LockStatus reads the current status under a row lock.
func (r *orderRepository) LockStatus(ctx context.Context, tx pgx.Tx, orderID string) (model.OrderStatus, error) {
	var raw string
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to lock order status")
		return "", fmt.Errorf("failed to lock order status: %w", err)
	}

	status, err := model.ParseOrderStatus(raw)
	if err != nil {
		return "", fmt.Errorf("order %s has corrupt status: %w", orderID, err)
	}

	return status, nil
}

// UpdateStatus sets the current status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, status model.OrderStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE order_id = $2`, string(status), orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return model.ErrOrderNotFound
	}

	return nil
}

// AppendStatusRecord appends one status history entry.
func (r *orderRepository) AppendStatusRecord(ctx context.Context, tx pgx.Tx, record *model.OrderStatusRecord) error {
	query := `
		INSERT INTO order_status_history (order_id, status, update_time, notes)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, record.OrderID, string(record.Status), record.UpdateTime, record.Notes)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", record.OrderID).
			Str("status", record.Status.String()).
			Msg("failed to append status record")
		return fmt.Errorf("failed to append status record: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = $1
	`

	order, err := scanOrder(r.db.QueryRow(ctx, orderQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, items, nil
}

// List retrieves order headers, newest first.
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR customer_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY order_date DESC, order_id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.CustomerID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", filter.CustomerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// StatusHistory lists the status records of an order, oldest first.
func (r *orderRepository) StatusHistory(ctx context.Context, orderID string) ([]model.OrderStatusRecord, error) {
	query := `
		SELECT order_id, status, update_time, notes
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY update_time, id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to query status history")
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	records := []model.OrderStatusRecord{}
	for rows.Next() {
		var (
			rec model.OrderStatusRecord
			raw string
		)
		if err := rows.Scan(&rec.OrderID, &raw, &rec.UpdateTime, &rec.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status record: %w", err)
		}
		if rec.Status, err = model.ParseOrderStatus(raw); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return records, nil
}

// scanOrder scans one orders row in orderColumns order.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o       model.Order
		payment string
		status  string
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.ShippingAddress,
		&o.TotalAmount,
		&o.ShippingFee,
		&o.Currency,
		&payment,
		&status,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if o.PaymentMethod, err = model.ParsePaymentMethod(payment); err != nil {
		return nil, err
	}
	if o.Status, err = model.ParseOrderStatus(status); err != nil {
		return nil, err
	}

	return &o, nil
}
