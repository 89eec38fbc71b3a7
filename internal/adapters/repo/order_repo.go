package repo

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/reybrally/pedidos-service/internal/domain/order"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepo stores order aggregates in PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo { return &OrderRepo{pool: pool} }

// EnsureSchema creates the tables when they do not exist yet.
func (r *OrderRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *OrderRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

type OrderRow struct {
	ID       int64
	ClientID int64
	Fecha    time.Time
	Total    string
}

type ItemRow struct {
	OrderID   int64
	ProductID int64
	Quantity  int
}

func (o *OrderRow) ToDomain() (order.Order, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return order.Order{}, fmt.Errorf("pedido %d: bad total %q: %w", o.ID, o.Total, err)
	}
	return order.Order{
		ID:       o.ID,
		ClientID: o.ClientID,
		Date:     order.TruncateDate(o.Fecha),
		Total:    total,
		Items:    make([]order.LineItem, 0, 4),
	}, nil
}

func (i ItemRow) ToDomain() order.LineItem {
	return order.LineItem{
		Key:      order.LineItemKey{OrderID: i.OrderID, ProductID: i.ProductID},
		Quantity: i.Quantity,
	}
}

func (r *OrderRepo) Close() error {
	r.pool.Close()
	return nil
}
