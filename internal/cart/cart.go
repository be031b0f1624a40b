// Package cart aggregates line items for a single shopping session.
package cart

import (
	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// Line is one aggregated product entry. UnitPrice is the discounted price
// captured when the product was first added and never changes afterwards.
type Line struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one Line per product, in insertion order.
// A Cart is owned by one session and is not safe for concurrent use.
type Cart struct {
	engine *pricing.Engine
	lines  []Line
	index  map[string]int
}

// New creates an empty cart priced by engine.
func New(engine *pricing.Engine) *Cart {
	return &Cart{
		engine: engine,
		index:  make(map[string]int),
	}
}

// Add puts one unit of p into the cart. A product already present has its
// quantity incremented; otherwise a new line is appended with the product's
// current discounted price.
func (c *Cart) Add(p model.Product) (Line, error) {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return c.lines[i], nil
	}

	price, err := c.engine.FinalUnitPrice(p.Price, p.DiscountPercent)
	if err != nil {
		return Line{}, err
	}

	line := Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   price,
		Quantity:    1,
	}
	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, line)

	return line, nil
}

// SetQuantity sets the quantity of an existing line. Quantities below one
// are rejected; use Remove to drop a line.
func (c *Cart) SetQuantity(productID string, qty int) (Line, error) {
	if qty < 1 {
		return Line{}, model.ErrInvalidQuantity
	}

	i, ok := c.index[productID]
	if !ok {
		return Line{}, model.ErrLineNotFound
	}

	c.lines[i].Quantity = qty
	return c.lines[i], nil
}

// Remove drops the line for productID and reports whether one existed.
func (c *Cart) Remove(productID string) bool {
	i, ok := c.index[productID]
	if !ok {
		return false
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}

	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (Line, bool) {
	i, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemTotal sums line subtotals, before shipping.
func (c *Cart) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Total returns ItemTotal plus the shipping surcharge. It is recomputed on
// every call.
func (c *Cart) Total() decimal.Decimal {
	items := c.ItemTotal()
	return items.Add(c.engine.ShippingSurcharge(items))
}
