package pricing

import (
	"github.com/shopspring/decimal"
)

// Quote is a priced cart summary. Amounts are in the base currency; the
// Display fields are rendered in Currency.
type Quote struct {
	Currency        string          `json:"currency"`
	ItemTotal       decimal.Decimal `json:"itemTotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	DisplayItems    string          `json:"displayItemTotal"`
	DisplayShipping string          `json:"displayShipping"`
	DisplayTotal    string          `json:"displayTotal"`
}

// Quote prices an item total, adding the shipping surcharge and rendering
// every amount in currency. An empty currency means the base currency.
func (e *Engine) Quote(itemTotal decimal.Decimal, currency string) (Quote, error) {
	if currency == "" {
		currency = e.BaseCurrency()
	}

	shipping := e.ShippingSurcharge(itemTotal)
	q := Quote{
		Currency:  currency,
		ItemTotal: itemTotal,
		Shipping:  shipping,
		Total:     itemTotal.Add(shipping),
	}

	var err error
	if q.DisplayItems, err = e.Display(q.ItemTotal, currency); err != nil {
		return Quote{}, err
	}
	if q.DisplayShipping, err = e.Display(q.Shipping, currency); err != nil {
		return Quote{}, err
	}
	if q.DisplayTotal, err = e.Display(q.Total, currency); err != nil {
		return Quote{}, err
	}

	return q, nil
}
