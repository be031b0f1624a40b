package service

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService over the in-memory cart store.
type cartService struct {
	store    *cart.Store
	products ProductService
	engine   *pricing.Engine
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store *cart.Store, products ProductService, engine *pricing.Engine, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		products: products,
		engine:   engine,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) View(ctx context.Context, sess session.Session, currency string) (*CartView, error) {
	return s.mutate(sess, currency, func(*cart.Cart) error { return nil })
}

func (s *cartService) AddItem(ctx context.Context, sess session.Session, productID, currency string) (*CartView, error) {
	if sess.CustomerID == "" {
		return nil, model.ErrNoSession
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(sess, currency, func(c *cart.Cart) error {
		line, err := c.Add(*product)
		if err != nil {
			return err
		}
		s.logger.Debug().
			Str("customer_id", sess.CustomerID).
			Str("product_id", line.ProductID).
			Int("quantity", line.Quantity).
			Msg("product added to cart")
		return nil
	})
}

func (s *cartService) SetQuantity(ctx context.Context, sess session.Session, productID string, qty int, currency string) (*CartView, error) {
	return s.mutate(sess, currency, func(c *cart.Cart) error {
		_, err := c.SetQuantity(productID, qty)
		return err
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sess session.Session, productID, currency string) (*CartView, error) {
	return s.mutate(sess, currency, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context, sess session.Session) error {
	if sess.CustomerID == "" {
		return model.ErrNoSession
	}
	return s.store.With(sess.CustomerID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// mutate applies fn to the session's cart and prices the result while the
// cart is still held.
func (s *cartService) mutate(sess session.Session, currency string, fn func(c *cart.Cart) error) (*CartView, error) {
	if sess.CustomerID == "" {
		return nil, model.ErrNoSession
	}
	if currency != "" && !s.engine.Supports(currency) {
		return nil, model.ErrUnknownCurrency
	}

	var view *CartView
	err := s.store.With(sess.CustomerID, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}

		var err error
		view, err = s.price(c.Lines(), c.ItemTotal(), currency)
		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (s *cartService) price(lines []cart.Line, itemTotal decimal.Decimal, currency string) (*CartView, error) {
	quote, err := s.engine.Quote(itemTotal, currency)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: make([]LineView, 0, len(lines)), Quote: quote}
	for _, l := range lines {
		lv := LineView{Line: l, Subtotal: l.Subtotal()}
		if lv.DisplayUnitPrice, err = s.engine.Display(l.UnitPrice, quote.Currency); err != nil {
			return nil, err
		}
		if lv.DisplaySubtotal, err = s.engine.Display(lv.Subtotal, quote.Currency); err != nil {
			return nil, err
		}
		view.Lines = append(view.Lines, lv)
	}

	return view, nil
}
