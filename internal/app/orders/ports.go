package orders

import (
	"context"
	"time"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

type OrderSaver interface {
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
}

type OrderGetter interface {
	FindByID(ctx context.Context, id int64) (domain.Order, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type OrderDeleter interface {
	DeleteByID(ctx context.Context, id int64) error
}

type OrderSearcher interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByClient(ctx context.Context, clientID int64) ([]domain.Order, error)
	FindByDate(ctx context.Context, date time.Time) ([]domain.Order, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
	FindMostRecent(ctx context.Context, n int) ([]domain.Order, error)
}

// OrderRepo is the order aggregate store. Save and DeleteByID are atomic.
type OrderRepo interface {
	OrderSaver
	OrderGetter
	OrderDeleter
	OrderSearcher
}

// EventPublisher is notified after a write has been committed.
type EventPublisher interface {
	OrderSaved(ctx context.Context, o domain.Order) error
	OrderDeleted(ctx context.Context, id int64) error
}

type NopPublisher struct{}

func (NopPublisher) OrderSaved(context.Context, domain.Order) error { return nil }
func (NopPublisher) OrderDeleted(context.Context, int64) error      { return nil }
