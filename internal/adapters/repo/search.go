package repo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qOrderColumns = `SELECT id, cliente_id, fecha, total::text FROM pedido`

	qAllOrders         = qOrderColumns + ` ORDER BY id;`
	qOrdersByClient    = qOrderColumns + ` WHERE cliente_id = $1 ORDER BY id;`
	qOrdersByDate      = qOrderColumns + ` WHERE fecha = $1 ORDER BY id;`
	qOrdersByDateRange = qOrderColumns + ` WHERE fecha BETWEEN $1 AND $2 ORDER BY fecha, id;`
	qMostRecentOrders  = qOrderColumns + ` ORDER BY fecha DESC, id DESC LIMIT $1;`

	qCountByClient = `SELECT COUNT(*) FROM pedido WHERE cliente_id = $1;`

	qItemsForOrders = `
	SELECT pedido_id, producto_id, cantidad
	FROM pedido_productos
	WHERE pedido_id = ANY($1::bigint[])
	ORDER BY pedido_id, producto_id;`
)

func (r *OrderRepo) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.loadOrders(ctx, "FindAll", qAllOrders)
}

func (r *OrderRepo) FindByClient(ctx context.Context, clientID int64) ([]order.Order, error) {
	return r.loadOrders(ctx, "FindByClient", qOrdersByClient, clientID)
}

func (r *OrderRepo) FindByDate(ctx context.Context, date time.Time) ([]order.Order, error) {
	return r.loadOrders(ctx, "FindByDate", qOrdersByDate, order.TruncateDate(date))
}

// FindByDateRange is inclusive on both ends; from after to yields nothing.
func (r *OrderRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	from, to = order.TruncateDate(from), order.TruncateDate(to)
	if from.After(to) {
		return []order.Order{}, nil
	}
	return r.loadOrders(ctx, "FindByDateRange", qOrdersByDateRange, from, to)
}

// FindMostRecent sorts by date descending, breaking ties by id descending.
func (r *OrderRepo) FindMostRecent(ctx context.Context, n int) ([]order.Order, error) {
	if n <= 0 {
		return []order.Order{}, nil
	}
	return r.loadOrders(ctx, "FindMostRecent", qMostRecentOrders, n)
}

func (r *OrderRepo) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, qCountByClient, clientID).Scan(&n); err != nil {
		logging.LogError("Error counting pedidos by client", err, logrus.Fields{"cliente_id": clientID})
		return 0, mapError(ctx, err)
	}
	return n, nil
}

// loadOrders runs an order query and then fetches the items of every
// returned order with a single extra query.
func (r *OrderRepo) loadOrders(ctx context.Context, method, query string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logging.LogError("Error executing search query", err, logrus.Fields{"method": method, "args": args})
		return nil, mapError(ctx, err)
	}

	out := make([]order.Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var row OrderRow
		if err := rows.Scan(&row.ID, &row.ClientID, &row.Fecha, &row.Total); err != nil {
			rows.Close()
			logging.LogError("Error scanning row in search query", err, logrus.Fields{"method": method})
			return nil, mapError(ctx, err)
		}
		o, err := row.ToDomain()
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logging.LogError("Error iterating over rows", err, logrus.Fields{"method": method})
		return nil, mapError(ctx, err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.pool.Query(ctx, qItemsForOrders, ids)
	if err != nil {
		logging.LogError("Error loading pedido items", err, logrus.Fields{"method": method})
		return nil, mapError(ctx, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			it  ItemRow
			qty int32
		)
		if err := itemRows.Scan(&it.OrderID, &it.ProductID, &qty); err != nil {
			return nil, mapError(ctx, err)
		}
		it.Quantity = int(qty)
		if i, ok := index[it.OrderID]; ok {
			out[i].Items = append(out[i].Items, it.ToDomain())
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, mapError(ctx, err)
	}

	logging.LogDebug("Search completed successfully", logrus.Fields{"method": method, "found_orders": len(out)})
	return out, nil
}
