// Package pricing turns catalogue prices into charged and displayed amounts.
//
// Every stored amount is in the rate table's base currency. Conversion and
// formatting are presentation concerns and never feed back into stored
// totals.
package pricing

import (
	"strings"

	"storefront/internal/model"
	"storefront/internal/rates"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultShippingFee is the flat surcharge for sub-threshold carts.
	DefaultShippingFee = decimal.NewFromInt(25)

	// DefaultShippingThreshold is the item total from which shipping is free.
	DefaultShippingThreshold = decimal.NewFromInt(500)
)

// Config holds the shipping rule parameters, in base currency units.
type Config struct {
	ShippingFee       decimal.Decimal
	ShippingThreshold decimal.Decimal
}

// DefaultConfig returns the default shipping rule.
func DefaultConfig() Config {
	return Config{
		ShippingFee:       DefaultShippingFee,
		ShippingThreshold: DefaultShippingThreshold,
	}
}

// Engine applies discounts, the shipping rule and currency conversion.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rates rates.Table
	cfg   Config
}

// NewEngine creates a pricing engine over the given rate table.
func NewEngine(table rates.Table, cfg Config) *Engine {
	return &Engine{
		rates: table,
		cfg:   cfg,
	}
}

// BaseCurrency returns the currency stored amounts are expressed in.
func (e *Engine) BaseCurrency() string {
	return e.rates.Base()
}

// Currencies returns the currency codes the engine can convert to.
func (e *Engine) Currencies() []string {
	return e.rates.Codes()
}

// Supports reports whether currency is in the rate table.
func (e *Engine) Supports(currency string) bool {
	_, ok := e.rates.Lookup(currency)
	return ok
}

// FinalUnitPrice applies a percentage discount to a base price, rounded to
// cents. discountPercent outside [0,100] is rejected, never clamped.
func (e *Engine) FinalUnitPrice(basePrice, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if basePrice.IsNegative() {
		return decimal.Zero, model.NewValidationError("price", "must not be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return decimal.Zero, model.NewValidationError("discountPercent", "must be between 0 and 100")
	}

	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return basePrice.Mul(factor).Round(2), nil
}

// ShippingSurcharge returns the flat fee when 0 < itemTotal < threshold and
// zero otherwise. itemTotal must be the pre-surcharge base-currency total.
func (e *Engine) ShippingSurcharge(itemTotal decimal.Decimal) decimal.Decimal {
	if itemTotal.IsPositive() && itemTotal.LessThan(e.cfg.ShippingThreshold) {
		return e.cfg.ShippingFee
	}
	return decimal.Zero
}

// Convert converts a base-currency amount into currency.
func (e *Engine) Convert(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	rate, ok := e.rates.Lookup(currency)
	if !ok {
		return decimal.Zero, model.ErrUnknownCurrency
	}
	return amount.Mul(rate.PerBase), nil
}

// ToBase converts an amount in currency back into the base currency.
func (e *Engine) ToBase(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	rate, ok := e.rates.Lookup(currency)
	if !ok {
		return decimal.Zero, model.ErrUnknownCurrency
	}
	return amount.Div(rate.PerBase), nil
}

// Format renders an amount already expressed in currency for display.
func (e *Engine) Format(amount decimal.Decimal, currency string) string {
	fixed := amount.StringFixed(2)

	rate, ok := e.rates.Lookup(currency)
	if !ok {
		return fixed + " " + strings.ToUpper(currency)
	}
	if rate.Suffix {
		return fixed + " " + rate.Symbol
	}
	return rate.Symbol + fixed
}

// Display converts a base-currency amount and formats it in one step.
func (e *Engine) Display(amount decimal.Decimal, currency string) (string, error) {
	converted, err := e.Convert(amount, currency)
	if err != nil {
		return "", err
	}
	return e.Format(converted, currency), nil
}
