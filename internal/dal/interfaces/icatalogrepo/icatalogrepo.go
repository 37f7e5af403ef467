package icatalogrepo

import (
	"context"

	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
)

// Repository is a read-only view of the product catalog. The order path
// never writes through it.
type Repository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]catalogitem.CatalogItem, error)
	List(ctx context.Context, limit, offset int) ([]catalogitem.CatalogItem, error)
}
