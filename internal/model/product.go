package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue entry as served by the catalog.
type Product struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DiscountPercent decimal.Decimal `json:"discountPercent" db:"discount_percent"`
	Category        string          `json:"category" db:"category"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}
