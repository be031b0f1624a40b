package rates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// mapTable implements Table using a map keyed by upper-case code.
type mapTable struct {
	base  string
	rates map[string]Rate
}

func newMapTable(base string) *mapTable {
	return &mapTable{
		base:  strings.ToUpper(base),
		rates: make(map[string]Rate),
	}
}

// NewTable builds a validated table from explicit rates.
func NewTable(base string, rs ...Rate) (Table, error) {
	t := newMapTable(base)
	for _, r := range rs {
		t.Add(r)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTable returns the built-in rate table used when no rate file is
// configured. Base is USD.
func DefaultTable() Table {
	t := newMapTable("USD")
	t.Add(Rate{Code: "USD", PerBase: decimal.NewFromInt(1), Symbol: "$"})
	t.Add(Rate{Code: "ETB", PerBase: decimal.RequireFromString("155.45"), Symbol: "Br", Suffix: true})
	t.Add(Rate{Code: "EUR", PerBase: decimal.RequireFromString("0.88"), Symbol: "€"})
	return t
}

// Base returns the base currency code.
func (t *mapTable) Base() string {
	return t.base
}

// Lookup returns the rate for code, case-insensitively.
func (t *mapTable) Lookup(code string) (Rate, bool) {
	r, ok := t.rates[strings.ToUpper(code)]
	return r, ok
}

// Codes returns the known currency codes in sorted order.
func (t *mapTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for c := range t.rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Add inserts or replaces a rate.
func (t *mapTable) Add(r Rate) {
	r.Code = strings.ToUpper(r.Code)
	t.rates[r.Code] = r
}

// Validate checks that the base currency is present at 1.0 and that every
// rate is positive.
func (t *mapTable) Validate() error {
	base, ok := t.rates[t.base]
	if !ok {
		return fmt.Errorf("rate table has no entry for base currency %s", t.base)
	}
	if !base.PerBase.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("base currency %s must have rate 1, got %s", t.base, base.PerBase)
	}
	for code, r := range t.rates {
		if !r.PerBase.IsPositive() {
			return fmt.Errorf("rate for %s must be positive, got %s", code, r.PerBase)
		}
	}
	return nil
}
