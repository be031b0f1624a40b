// Package orderstatus governs the order lifecycle after commit.
package orderstatus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// next lists the forward step of each non-terminal status. CANCELLED is
// reachable from all of them.
var next = map[model.OrderStatus]model.OrderStatus{
	model.StatusPending:    model.StatusProcessing,
	model.StatusProcessing: model.StatusShipped,
	model.StatusShipped:    model.StatusDelivered,
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to model.OrderStatus) error {
	if from.Terminal() {
		return fmt.Errorf("%w: %s", model.ErrTerminalStatus, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrIllegalTransition, to)
	}
	if from == to {
		return fmt.Errorf("%w: order is already %s", model.ErrIllegalTransition, from)
	}
	if to == model.StatusCancelled || next[from] == to {
		return nil
	}
	return fmt.Errorf("%w: %s to %s", model.ErrIllegalTransition, from, to)
}

// Machine applies status transitions. Each accepted transition updates the
// order, appends a history record and enqueues an order.status_changed
// event in one unit of work, under a row lock on the order.
type Machine struct {
	tx     repository.Transactor
	orders repository.OrderRepository
	outbox repository.OutboxRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewMachine creates a status machine.
func NewMachine(tx repository.Transactor, orders repository.OrderRepository, outbox repository.OutboxRepository, logger zerolog.Logger) *Machine {
	return &Machine{
		tx:     tx,
		orders: orders,
		outbox: outbox,
		now:    time.Now,
		logger: logger.With().Str("component", "order-status").Logger(),
	}
}

// Transition moves orderID to target on behalf of sess. Only admins may
// change status. Requests without a valid target are rejected before any
// I/O; rule violations are detected against the locked current status.
func (m *Machine) Transition(ctx context.Context, sess session.Session, orderID string, target model.OrderStatus, notes string) (*model.OrderStatusRecord, error) {
	if !sess.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if target == "" {
		return nil, model.NewValidationError("status", "is required")
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrIllegalTransition, target)
	}

	record := &model.OrderStatusRecord{
		OrderID: orderID,
		Status:  target,
		Notes:   strings.TrimSpace(notes),
	}

	var from model.OrderStatus
	err := repository.RunInUnitOfWork(ctx, m.tx, m.logger, func(tx pgx.Tx) error {
		current, err := m.orders.LockStatus(ctx, tx, orderID)
		if err != nil {
			return err
		}
		from = current

		if err := CanTransition(current, target); err != nil {
			return err
		}

		record.UpdateTime = m.now().UTC()

		if err := m.orders.UpdateStatus(ctx, tx, orderID, target); err != nil {
			return err
		}
		if err := m.orders.AppendStatusRecord(ctx, tx, record); err != nil {
			return err
		}

		event, err := events.NewStatusChanged(current, record, sess.CustomerID)
		if err != nil {
			return err
		}
		return m.outbox.Enqueue(ctx, tx, event)
	})
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			m.logger.Warn().
				Err(err).
				Str("order_id", orderID).
				Str("from", from.String()).
				Str("to", target.String()).
				Msg("status transition rejected")
			return nil, err
		}

		m.logger.Error().Err(err).Str("order_id", orderID).Msg("status transition rolled back")
		return nil, &model.PersistenceError{Op: "update order status", Err: err}
	}

	m.logger.Info().
		Str("order_id", orderID).
		Str("from", from.String()).
		Str("to", target.String()).
		Str("changed_by", sess.CustomerID).
		Msg("order status changed")

	return record, nil
}

// History lists the status records of orderID, oldest first.
func (m *Machine) History(ctx context.Context, orderID string) ([]model.OrderStatusRecord, error) {
	records, err := m.orders.StatusHistory(ctx, orderID)
	if err != nil {
		return nil, &model.PersistenceError{Op: "load status history", Err: err}
	}
	return records, nil
}
