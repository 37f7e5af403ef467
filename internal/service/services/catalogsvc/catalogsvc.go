package catalogsvc

import (
	"context"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/icatalogrepo"
	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
)

// CatalogService exposes the storefront's read-only product view.
type CatalogService struct {
	repo icatalogrepo.Repository
}

func NewCatalogService(repo icatalogrepo.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts returns a page of catalog items.
func (s *CatalogService) ListProducts(
	ctx context.Context,
	limit, offset int,
) ([]catalogitem.CatalogItem, error) {
	return s.repo.List(ctx, limit, offset)
}
