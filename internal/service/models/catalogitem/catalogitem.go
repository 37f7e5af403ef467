package catalogitem

import (
	"github.com/shopspring/decimal"

	"github.com/kashan660/sellaap-orders/internal/service/models/currency"
)

// CatalogItem is the authoritative, server-owned product record. The
// order path only ever reads it.
type CatalogItem struct {
	ID         int64             `json:"id"`
	Title      string            `json:"title"`
	Url        string            `json:"url"`
	PriceCents int64             `json:"priceCents"`
	Currency   currency.Currency `json:"currency"`
}

// Price returns the unit price as a decimal amount in major units.
func (c CatalogItem) Price() decimal.Decimal {
	return decimal.NewFromInt(c.PriceCents).Div(decimal.NewFromInt(100))
}
