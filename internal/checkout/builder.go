// Package checkout turns a session's cart into a persisted order.
package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/session"

	"github.com/google/uuid"
)

// OrderIDPrefix starts every order identifier.
const OrderIDPrefix = "ORD-"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Builder validates checkout input and snapshots a cart into an order.
// It performs no I/O.
type Builder struct {
	engine *pricing.Engine
	phone  *regexp.Regexp
	now    func() time.Time
	newID  func() (string, error)
}

// NewBuilder creates a Builder accepting phone numbers matching phonePattern.
func NewBuilder(engine *pricing.Engine, phonePattern string) (*Builder, error) {
	phone, err := regexp.Compile(phonePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid phone pattern: %w", err)
	}

	return &Builder{
		engine: engine,
		phone:  phone,
		now:    time.Now,
		newID:  newOrderID,
	}, nil
}

// Build validates the checkout form and returns the order and its items.
// Nothing is constructed unless every check passes. Amounts are in the base
// currency; Currency records the customer's display currency.
func (b *Builder) Build(sess session.Session, lines []cart.Line, req model.CheckoutRequest) (*model.Order, []model.OrderItem, error) {
	if sess.CustomerID == "" {
		return nil, nil, model.ErrNoSession
	}
	if len(lines) == 0 {
		return nil, nil, model.ErrEmptyCart
	}

	form, err := b.validate(req)
	if err != nil {
		return nil, nil, err
	}

	id, err := b.newID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, nil, model.ErrInvalidQuantity
		}
		items = append(items, model.OrderItem{
			OrderID:     id,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}

	itemTotal := model.ItemsTotal(items)
	shipping := b.engine.ShippingSurcharge(itemTotal)

	order := &model.Order{
		ID:              id,
		CustomerID:      sess.CustomerID,
		CustomerName:    form.FullName,
		CustomerEmail:   form.Email,
		CustomerPhone:   form.Phone,
		ShippingAddress: form.Address,
		Currency:        form.Currency,
		PaymentMethod:   form.PaymentMethod,
		Status:          model.StatusProcessing,
		ShippingFee:     shipping,
		TotalAmount:     itemTotal.Add(shipping),
		CreatedAt:       b.now().UTC(),
	}

	return order, items, nil
}

// validate checks every form field in display order and returns the
// normalised form.
func (b *Builder) validate(req model.CheckoutRequest) (model.CheckoutRequest, error) {
	form := model.CheckoutRequest{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.Join(strings.Fields(req.Phone), ""),
		Address:  strings.TrimSpace(req.Address),
		Currency: strings.ToUpper(strings.TrimSpace(req.Currency)),
	}

	if form.FullName == "" {
		return form, model.NewValidationError("fullName", "is required")
	}
	if !emailPattern.MatchString(form.Email) {
		return form, model.NewValidationError("email", "is not a valid email address")
	}
	if !b.phone.MatchString(form.Phone) {
		return form, model.NewValidationError("phone", "is not a valid phone number")
	}
	if form.Address == "" {
		return form, model.NewValidationError("address", "is required")
	}

	method, err := model.ParsePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return form, model.NewValidationError("paymentMethod", "must be one of TeleBirr, Bank Transfer, Credit Card, PayPal")
	}
	form.PaymentMethod = method

	if form.Currency == "" {
		form.Currency = b.engine.BaseCurrency()
	}
	if !b.engine.Supports(form.Currency) {
		return form, model.NewValidationError("currency", "is not supported")
	}

	return form, nil
}

func newOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return OrderIDPrefix + id.String(), nil
}
