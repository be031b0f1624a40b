package service

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
)

// ProductService defines read-only catalogue operations.
type ProductService interface {
	// GetAll retrieves products with pagination, optionally filtered by category.
	GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Categories lists the catalogue categories.
	Categories(ctx context.Context) ([]string, error)
}

// CartService defines operations on the cart of the calling session. Every
// mutation returns the recomputed cart priced in currency.
type CartService interface {
	// View prices the cart in currency. An empty currency means the base currency.
	View(ctx context.Context, sess session.Session, currency string) (*CartView, error)

	// AddItem adds one unit of a catalogue product.
	AddItem(ctx context.Context, sess session.Session, productID, currency string) (*CartView, error)

	// SetQuantity replaces the quantity of a line already in the cart.
	SetQuantity(ctx context.Context, sess session.Session, productID string, qty int, currency string) (*CartView, error)

	// RemoveItem removes a line; removing an absent product is not an error.
	RemoveItem(ctx context.Context, sess session.Session, productID, currency string) (*CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sess session.Session) error
}

// CheckoutService turns the session's cart into a committed order.
type CheckoutService interface {
	// Checkout builds and commits an order. The cart is cleared only when
	// the commit succeeds.
	Checkout(ctx context.Context, sess session.Session, req model.CheckoutRequest) (*model.OrderResponse, error)
}

// OrderService defines operations on committed orders.
type OrderService interface {
	// GetByID retrieves an order with its items. Customers only see their own.
	GetByID(ctx context.Context, sess session.Session, id string) (*model.OrderResponse, error)

	// List retrieves orders, newest first. Customers only see their own.
	List(ctx context.Context, sess session.Session, status model.OrderStatus, limit, offset int) ([]model.Order, error)

	// History lists the status records of an order, oldest first.
	History(ctx context.Context, sess session.Session, id string) ([]model.OrderStatusRecord, error)

	// UpdateStatus applies a status transition. Admin only.
	UpdateStatus(ctx context.Context, sess session.Session, id string, req model.StatusUpdateRequest) (*model.OrderStatusRecord, error)
}

// LineView is a cart line with its subtotal and display amounts.
type LineView struct {
	cart.Line
	Subtotal         decimal.Decimal `json:"subtotal"`
	DisplayUnitPrice string          `json:"displayUnitPrice"`
	DisplaySubtotal  string          `json:"displaySubtotal"`
}

// CartView is a priced snapshot of a cart.
type CartView struct {
	Lines []LineView `json:"lines"`
	pricing.Quote
}

// normalisePage applies the default and maximum page size.
func normalisePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
