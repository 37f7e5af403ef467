package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderitemrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/iorderrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/postgres"
	orderrepo "github.com/kashan660/sellaap-orders/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/kashan660/sellaap-orders/internal/dal/repositories/orderitem/postgres"
)

// unitOfWork scopes the order and order item repositories to a single
// transaction: the order header and its lines persist together or not at
// all.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.Repository
	orderItemRepo iorderitemrepo.Repository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          client.Pool(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.Repository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.Repository {
	return u.orderItemRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
