package iorderrepo

import (
	"context"

	"github.com/kashan660/sellaap-orders/internal/service/models/order"
)

// Repository is an interface for the order postgres repository.
type Repository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
}
