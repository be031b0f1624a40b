package rates

import (
	"context"

	"github.com/shopspring/decimal"
)

// Rate describes one currency relative to the base currency.
type Rate struct {
	// Code is the ISO-like currency code, e.g. "ETB".
	Code string

	// PerBase is how many units of Code one base unit buys.
	PerBase decimal.Decimal

	// Symbol is the display marker, e.g. "$" or "Br".
	Symbol string

	// Suffix places Symbol after the amount instead of before it.
	Suffix bool
}

// Table is a read-only set of exchange rates keyed by currency code.
type Table interface {
	// Base returns the code every rate is expressed against.
	Base() string

	// Lookup returns the rate for a currency code.
	Lookup(code string) (Rate, bool)

	// Codes returns the known currency codes in sorted order.
	Codes() []string
}

// Loader defines the interface for loading rate table files.
type Loader interface {
	// Load reads a rate file (optionally gzipped) and returns a Table.
	Load(ctx context.Context, path string) (Table, error)
}
