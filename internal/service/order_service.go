package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/orderstatus"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	machine   *orderstatus.Machine
	engine    *pricing.Engine
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	machine *orderstatus.Machine,
	engine *pricing.Engine,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		machine:   machine,
		engine:    engine,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, sess session.Session, id string) (*model.OrderResponse, error) {
	order, items, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	resp, err := orderResponse(s.engine, order, items)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to render order totals")
		return nil, err
	}
	return resp, nil
}

// List retrieves orders, newest first.
func (s *orderService) List(ctx context.Context, sess session.Session, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	if sess.CustomerID == "" {
		return nil, model.ErrNoSession
	}

	limit, offset = normalisePage(limit, offset)
	filter := repository.OrderFilter{Status: status, Limit: limit, Offset: offset}
	if !sess.IsAdmin() {
		filter.CustomerID = sess.CustomerID
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", sess.CustomerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// History lists the status records of an order.
func (s *orderService) History(ctx context.Context, sess session.Session, id string) ([]model.OrderStatusRecord, error) {
	if _, _, err := s.load(ctx, sess, id); err != nil {
		return nil, err
	}
	return s.machine.History(ctx, id)
}

// UpdateStatus applies a status transition.
func (s *orderService) UpdateStatus(ctx context.Context, sess session.Session, id string, req model.StatusUpdateRequest) (*model.OrderStatusRecord, error) {
	return s.machine.Transition(ctx, sess, id, req.Status, req.Notes)
}

// load fetches an order visible to sess. Another customer's order is
// reported as not found.
func (s *orderService) load(ctx context.Context, sess session.Session, id string) (*model.Order, []model.OrderItem, error) {
	if sess.CustomerID == "" {
		return nil, nil, model.ErrNoSession
	}

	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || (!sess.IsAdmin() && order.CustomerID != sess.CustomerID) {
		s.logger.Debug().Str("order_id", id).Str("customer_id", sess.CustomerID).Msg("order not found")
		return nil, nil, model.ErrOrderNotFound
	}

	return order, items, nil
}
