package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/currency"
)

// CatalogItemDal represents catalog item data access layer model.
type CatalogItemDal struct {
	Id         int64  `db:"id"`
	Title      string `db:"title"`
	Url        string `db:"url"`
	PriceCents int64  `db:"price_cents"`
	Currency   string `db:"currency"`
}

// ToModel converts CatalogItemDal to service layer CatalogItem model.
func (c *CatalogItemDal) ToModel() (*catalogitem.CatalogItem, error) {
	cur, err := currency.ParseCurrency(c.Currency)
	if err != nil {
		return nil, err
	}

	return &catalogitem.CatalogItem{
		ID:         c.Id,
		Title:      c.Title,
		Url:        c.Url,
		PriceCents: c.PriceCents,
		Currency:   cur,
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresCatalogRepository reads the product catalog. It is read-only by
// construction: no insert or update statements exist here.
type PostgresCatalogRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCatalogRepository creates a new Postgres catalog repository.
func NewPostgresCatalogRepository(conn GenericConn) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetByIDs retrieves catalog items by product ids. Missing ids are simply
// absent from the result; the caller decides whether that is an error.
func (r *PostgresCatalogRepository) GetByIDs(
	ctx context.Context,
	ids []int64,
) ([]catalogitem.CatalogItem, error) {
	if len(ids) == 0 {
		return []catalogitem.CatalogItem{}, nil
	}

	query := r.sb.
		Select("id", "title", "url", "price_cents", "currency").
		From("products").
		Where(sq.Eq{"id": ids})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryItems(ctx, sql, args)
}

// List retrieves a page of catalog items.
func (r *PostgresCatalogRepository) List(
	ctx context.Context,
	limit, offset int,
) ([]catalogitem.CatalogItem, error) {
	query := r.sb.
		Select("id", "title", "url", "price_cents", "currency").
		From("products").
		OrderBy("id ASC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryItems(ctx, sql, args)
}

func (r *PostgresCatalogRepository) queryItems(
	ctx context.Context,
	sql string,
	args []interface{},
) ([]catalogitem.CatalogItem, error) {
	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var result []catalogitem.CatalogItem
	for rows.Next() {
		var dal CatalogItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.Title,
			&dal.Url,
			&dal.PriceCents,
			&dal.Currency,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert catalog item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
