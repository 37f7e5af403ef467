package order

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/kashan660/sellaap-orders/internal/service/models/currency"
	"github.com/kashan660/sellaap-orders/internal/service/models/orderitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/paymentmethod"
)

// Status is the order lifecycle state. Orders are created PENDING; the
// only mutation after creation is the administrative transition to
// COMPLETED or CANCELLED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case StatusPending.String():
		return StatusPending, nil
	case StatusCompleted.String():
		return StatusCompleted, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Order represents an order in the system.
type Order struct {
	ID                 int64                 `json:"id"`
	CustomerID         int64                 `json:"customerId"`
	Status             Status                `json:"status"`
	PaymentMethod      paymentmethod.Method  `json:"paymentMethod"`
	TotalPriceCents    int64                 `json:"totalPriceCents"`
	TotalPriceCurrency currency.Currency     `json:"totalPriceCurrency"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	OrderItems         []orderitem.OrderItem `json:"orderItems"`
}
