package iauditrepo

import (
	"context"

	"github.com/kashan660/sellaap-orders/internal/service/models/order"
)

// IAuditorRepository is interface for auditor repository.
type IAuditorRepository interface {
	LogOrderCreated(ctx context.Context, o order.Order) error
}
