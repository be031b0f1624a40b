package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts a raw value into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// Terminal reports whether no transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// PaymentMethod is the closed set of payment options offered at checkout.
type PaymentMethod string

const (
	PaymentTeleBirr     PaymentMethod = "TeleBirr"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPayPal       PaymentMethod = "PayPal"
)

// PaymentMethods lists the accepted methods in menu order.
var PaymentMethods = []PaymentMethod{
	PaymentTeleBirr,
	PaymentBankTransfer,
	PaymentCreditCard,
	PaymentPayPal,
}

// ParsePaymentMethod converts a raw menu selection into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Order represents a placed customer order. Only Status changes after commit.
type Order struct {
	ID              string          `json:"orderId" db:"order_id"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	CustomerName    string          `json:"customerName" db:"customer_name"`
	CustomerEmail   string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone   string          `json:"customerPhone" db:"customer_phone"`
	ShippingAddress string          `json:"shippingAddress" db:"shipping_address"`
	Currency        string          `json:"currency" db:"currency"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Status          OrderStatus     `json:"status" db:"status"`
	ShippingFee     decimal.Decimal `json:"shippingFee" db:"shipping_fee"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt       time.Time       `json:"orderDate" db:"order_date"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	OrderID     string          `json:"orderId" db:"order_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// OrderStatusRecord is one entry of an order's status history.
type OrderStatusRecord struct {
	OrderID    string      `json:"orderId" db:"order_id"`
	Status     OrderStatus `json:"status" db:"status"`
	UpdateTime time.Time   `json:"updateTime" db:"update_time"`
	Notes      string      `json:"notes,omitempty" db:"notes"`
}

// ItemsTotal sums the subtotals of items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// CheckoutRequest represents the checkout form submitted by a customer.
type CheckoutRequest struct {
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Currency      string        `json:"currency"`
}

// StatusUpdateRequest represents an operator's status change request.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes,omitempty"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order              Order       `json:"order"`
	Items              []OrderItem `json:"items"`
	DisplayTotal       string      `json:"displayTotal"`
	DisplayShippingFee string      `json:"displayShippingFee"`
}
