package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/icatalogrepo"
	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
)

// CachedCatalogRepository is a read-through cache in front of the catalog
// repository. Catalog prices change rarely, so a short TTL is enough; the
// intake tolerance absorbs timing skew between cache and store.
type CachedCatalogRepository struct {
	inner   icatalogrepo.Repository
	client  *redis.Client
	baseTTL time.Duration
}

func NewCachedCatalogRepository(
	inner icatalogrepo.Repository,
	client *redis.Client,
) *CachedCatalogRepository {
	return &CachedCatalogRepository{
		inner:   inner,
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// jitteredTTL spreads expirations so a burst of submissions does not
// refill everything at once.
func (r *CachedCatalogRepository) jitteredTTL() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL / 10)))

	return r.baseTTL + jitter
}

// GetByIDs serves hits from redis and falls through to the inner
// repository for misses, backfilling the cache. Cache errors degrade to
// a plain repository read rather than failing the lookup.
func (r *CachedCatalogRepository) GetByIDs(
	ctx context.Context,
	ids []int64,
) ([]catalogitem.CatalogItem, error) {
	result := make([]catalogitem.CatalogItem, 0, len(ids))
	missed := make([]int64, 0)

	for _, id := range ids {
		data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
		if err != nil {
			missed = append(missed, id)

			continue
		}

		var item catalogitem.CatalogItem
		if err := json.Unmarshal(data, &item); err != nil {
			missed = append(missed, id)

			continue
		}

		result = append(result, item)
	}

	if len(missed) == 0 {
		return result, nil
	}

	loaded, err := r.inner.GetByIDs(ctx, missed)
	if err != nil {
		return nil, err
	}

	for _, item := range loaded {
		if data, err := json.Marshal(item); err == nil {
			r.client.Set(ctx, cacheKey(item.ID), data, r.jitteredTTL())
		}
	}

	return append(result, loaded...), nil
}

// List is a paged browse path and bypasses the cache.
func (r *CachedCatalogRepository) List(
	ctx context.Context,
	limit, offset int,
) ([]catalogitem.CatalogItem, error) {
	return r.inner.List(ctx, limit, offset)
}
