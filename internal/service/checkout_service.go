package service

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/session"

	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	store     *cart.Store
	builder   *checkout.Builder
	committer *checkout.Committer
	engine    *pricing.Engine
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	store *cart.Store,
	builder *checkout.Builder,
	committer *checkout.Committer,
	engine *pricing.Engine,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		store:     store,
		builder:   builder,
		committer: committer,
		engine:    engine,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout holds the session's cart for the whole build and commit so a
// concurrent mutation cannot slip in between them.
func (s *checkoutService) Checkout(ctx context.Context, sess session.Session, req model.CheckoutRequest) (*model.OrderResponse, error) {
	if sess.CustomerID == "" {
		return nil, model.ErrNoSession
	}

	var (
		order *model.Order
		items []model.OrderItem
	)
	err := s.store.With(sess.CustomerID, func(c *cart.Cart) error {
		var err error
		order, items, err = s.builder.Build(sess, c.Lines(), req)
		if err != nil {
			s.logger.Warn().Err(err).Str("customer_id", sess.CustomerID).Msg("checkout rejected")
			return err
		}

		if err := s.committer.Commit(ctx, order, items); err != nil {
			return err
		}

		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("customer_id", sess.CustomerID).
		Str("currency", order.Currency).
		Msg("checkout completed")

	// The order is committed at this point; a display failure must not
	// report the checkout as failed.
	resp, err := orderResponse(s.engine, order, items)
	if err != nil {
		s.logger.Error().Err(err).
			Str("order_id", order.ID).
			Msg("failed to render order totals")
	}
	return resp, nil
}

// orderResponse renders an order's totals in its display currency, falling
// back to the base currency when the rate table no longer knows it. The
// response is always returned; display fields are empty when err is set.
func orderResponse(engine *pricing.Engine, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	resp := &model.OrderResponse{Order: *order, Items: items}
	if resp.Items == nil {
		resp.Items = []model.OrderItem{}
	}

	currency := order.Currency
	if !engine.Supports(currency) {
		currency = engine.BaseCurrency()
	}

	total, err := engine.Display(order.TotalAmount, currency)
	if err != nil {
		return resp, fmt.Errorf("failed to display total in %s: %w", currency, err)
	}
	fee, err := engine.Display(order.ShippingFee, currency)
	if err != nil {
		return resp, fmt.Errorf("failed to display shipping fee in %s: %w", currency, err)
	}
	resp.DisplayTotal = total
	resp.DisplayShippingFee = fee

	return resp, nil
}
