package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	domain "github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
	"github.com/reybrally/pedidos-service/internal/validation"
)

type OrderService struct {
	repo   orders.OrderRepo
	events orders.EventPublisher
}

// NewOrderService wires the store and the event publisher. A nil publisher
// disables events.
func NewOrderService(repo orders.OrderRepo, events orders.EventPublisher) *OrderService {
	if events == nil {
		events = orders.NopPublisher{}
	}
	return &OrderService{repo: repo, events: events}
}

func (serv *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return serv.repo.FindAll(ctx)
}

func (serv *OrderService) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	if id <= 0 {
		return domain.Order{}, fmt.Errorf("%w: id must be a positive number", orders.ErrInvalidData)
	}
	return serv.repo.FindByID(ctx, id)
}

func (serv *OrderService) OrdersByClient(ctx context.Context, clientID int64) ([]domain.Order, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: clienteId must be a positive number", orders.ErrInvalidData)
	}
	list, err := serv.repo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no pedidos for cliente %d", orders.ErrNotFound, clientID)
	}
	return list, nil
}

func (serv *OrderService) OrdersByDate(ctx context.Context, date time.Time) ([]domain.Order, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: fecha is required", orders.ErrInvalidData)
	}
	date = domain.TruncateDate(date)
	list, err := serv.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no pedidos on %s", orders.ErrNotFound, domain.FormatDate(date))
	}
	return list, nil
}

// OrdersByDateRange is inclusive on both ends. An inverted range never
// reaches the store and is reported like any other empty lookup.
func (serv *OrderService) OrdersByDateRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: desde and hasta are required", orders.ErrInvalidData)
	}
	from, to, ok := orders.NormalizeDateRange(from, to)
	notFound := fmt.Errorf("%w: no pedidos between %s and %s", orders.ErrNotFound, domain.FormatDate(from), domain.FormatDate(to))
	if !ok {
		return nil, notFound
	}
	list, err := serv.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound
	}
	return list, nil
}

func (serv *OrderService) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	return serv.repo.CountByClient(ctx, clientID)
}

func (serv *OrderService) RecentOrders(ctx context.Context, n int) ([]domain.Order, error) {
	return serv.repo.FindMostRecent(ctx, orders.NormalizeRecentLimit(n))
}

func (serv *OrderService) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	o.ID = 0
	saved, err := serv.save(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	logging.LogInfo("Pedido created", logrus.Fields{"id": saved.ID, "cliente_id": saved.ClientID})
	return saved, nil
}

// UpdateOrder overwrites the stored order with o. The path id always wins
// over whatever id the body carried.
func (serv *OrderService) UpdateOrder(ctx context.Context, id int64, o domain.Order) (domain.Order, error) {
	if id <= 0 {
		return domain.Order{}, fmt.Errorf("%w: id must be a positive number", orders.ErrInvalidData)
	}
	o.ID = id

	exists, err := serv.repo.ExistsByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !exists {
		return domain.Order{}, fmt.Errorf("%w: pedido %d", orders.ErrNotFound, id)
	}

	saved, err := serv.save(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	logging.LogInfo("Pedido updated", logrus.Fields{"id": saved.ID})
	return saved, nil
}

func (serv *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive number", orders.ErrInvalidData)
	}
	exists, err := serv.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: pedido %d", orders.ErrNotFound, id)
	}
	if err := serv.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := serv.events.OrderDeleted(ctx, id); err != nil {
		logging.LogError("Failed to publish pedido.deleted", err, logrus.Fields{"id": id})
	}
	return nil
}

/* helpers */

func (serv *OrderService) save(ctx context.Context, o domain.Order) (domain.Order, error) {
	orders.NormalizeOrder(&o)
	if err := validation.IsValidOrder(o); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", orders.ErrInvalidData, err)
	}

	saved, err := serv.repo.Save(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}

	if err := serv.events.OrderSaved(ctx, saved); err != nil {
		logging.LogError("Failed to publish pedido.saved", err, logrus.Fields{"id": saved.ID})
	}
	return saved, nil
}
