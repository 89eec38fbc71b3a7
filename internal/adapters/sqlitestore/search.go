package sqlitestore

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qOrderColumns = `SELECT id, cliente_id, fecha, total FROM pedido `
	qOrderIDs     = `SELECT id FROM pedido `

	// Selections are shared by the order query and its item subquery.
	selAllOrders         = `ORDER BY id`
	selOrdersByClient    = `WHERE cliente_id = ? ORDER BY id`
	selOrdersByDate      = `WHERE fecha = ? ORDER BY id`
	selOrdersByDateRange = `WHERE fecha BETWEEN ? AND ? ORDER BY fecha, id`
	selMostRecentOrders  = `ORDER BY fecha DESC, id DESC LIMIT ?`

	qCountByClient = `SELECT COUNT(*) FROM pedido WHERE cliente_id = ?`

	qItemsForSelection = `SELECT pedido_id, producto_id, cantidad FROM pedido_productos WHERE pedido_id IN (%s) ORDER BY pedido_id, producto_id`
)

// itemsQuery loads the items of every order matched by sel without binding
// one variable per order.
func itemsQuery(sel string) string {
	return strings.Replace(qItemsForSelection, "%s", qOrderIDs+sel, 1)
}

func (s *Store) FindAll(ctx context.Context) ([]order.Order, error) {
	return s.loadOrders(ctx, "FindAll", selAllOrders)
}

func (s *Store) FindByClient(ctx context.Context, clientID int64) ([]order.Order, error) {
	return s.loadOrders(ctx, "FindByClient", selOrdersByClient, clientID)
}

func (s *Store) FindByDate(ctx context.Context, date time.Time) ([]order.Order, error) {
	return s.loadOrders(ctx, "FindByDate", selOrdersByDate, order.FormatDate(order.TruncateDate(date)))
}

// FindByDateRange is inclusive on both ends; from after to yields nothing.
func (s *Store) FindByDateRange(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	from, to = order.TruncateDate(from), order.TruncateDate(to)
	if from.After(to) {
		return []order.Order{}, nil
	}
	return s.loadOrders(ctx, "FindByDateRange", selOrdersByDateRange, order.FormatDate(from), order.FormatDate(to))
}

func (s *Store) FindMostRecent(ctx context.Context, n int) ([]order.Order, error) {
	if n <= 0 {
		return []order.Order{}, nil
	}
	return s.loadOrders(ctx, "FindMostRecent", selMostRecentOrders, n)
}

func (s *Store) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, qCountByClient, clientID).Scan(&n); err != nil {
		logging.LogError("Error counting pedidos by client", err, logrus.Fields{"cliente_id": clientID})
		return 0, mapError(ctx, err)
	}
	return n, nil
}

// loadOrders drains the order rows before fetching items, since the pool
// holds a single connection.
func (s *Store) loadOrders(ctx context.Context, method, sel string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, qOrderColumns+sel, args...)
	if err != nil {
		logging.LogError("Error executing search query", err, logrus.Fields{"method": method})
		return nil, mapError(ctx, err)
	}

	out := make([]order.Order, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.id, &row.clientID, &row.fecha, &row.total); err != nil {
			rows.Close()
			return nil, mapError(ctx, err)
		}
		o, err := row.toDomain()
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(ctx, err)
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := s.db.QueryContext(ctx, itemsQuery(sel), args...)
	if err != nil {
		logging.LogError("Error loading pedido items", err, logrus.Fields{"method": method})
		return nil, mapError(ctx, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it order.LineItem
		if err := itemRows.Scan(&it.Key.OrderID, &it.Key.ProductID, &it.Quantity); err != nil {
			return nil, mapError(ctx, err)
		}
		if i, ok := index[it.Key.OrderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, mapError(ctx, err)
	}

	logging.LogDebug("Search completed successfully", logrus.Fields{"method": method, "found_orders": len(out)})
	return out, nil
}
