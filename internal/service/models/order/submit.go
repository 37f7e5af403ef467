package order

import (
	"github.com/shopspring/decimal"
)

// LineRequest is a client-submitted cart line. It is untrusted input and
// lives only for the duration of one submission; the declared price is
// used solely for the tamper check, never persisted.
type LineRequest struct {
	ProductID     int64           `json:"productId"`
	Quantity      int             `json:"quantity"`
	DeclaredPrice decimal.Decimal `json:"price"`
}

// SubmitRequest is a proposed order as received from the client.
type SubmitRequest struct {
	CustomerID    int64           `json:"customerId"`
	Items         []LineRequest   `json:"items"`
	DeclaredTotal decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
}
