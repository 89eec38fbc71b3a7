package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qOrderByID     = `SELECT id, cliente_id, fecha, total FROM pedido WHERE id = ?`
	qItemsForOrder = `SELECT pedido_id, producto_id, cantidad FROM pedido_productos WHERE pedido_id = ? ORDER BY producto_id`
	qExistsOrder   = `SELECT EXISTS (SELECT 1 FROM pedido WHERE id = ?)`
	qDeleteOrder   = `DELETE FROM pedido WHERE id = ?`
)

func (s *Store) FindByID(ctx context.Context, id int64) (order.Order, error) {
	return findByID(ctx, s.db, id)
}

func (s *Store) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, qExistsOrder, id).Scan(&exists); err != nil {
		logging.LogError("Error checking pedido existence", err, logrus.Fields{"id": id})
		return false, mapError(ctx, err)
	}
	return exists, nil
}

// DeleteByID removes the order and its line items in one transaction.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(ctx, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, qDeleteAllItems, id); err != nil {
		logging.LogError("Error deleting pedido items", err, logrus.Fields{"id": id})
		return mapError(ctx, err)
	}
	res, err := tx.ExecContext(ctx, qDeleteOrder, id)
	if err != nil {
		logging.LogError("Error deleting pedido", err, logrus.Fields{"id": id})
		return mapError(ctx, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(ctx, err)
	}
	if n == 0 {
		return orders.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return mapError(ctx, err)
	}
	logging.LogInfo("Pedido deleted successfully", logrus.Fields{"id": id})
	return nil
}

func findByID(ctx context.Context, q querier, id int64) (order.Order, error) {
	var row orderRow
	err := q.QueryRowContext(ctx, qOrderByID, id).Scan(&row.id, &row.clientID, &row.fecha, &row.total)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, orders.ErrNotFound
	}
	if err != nil {
		logging.LogError("Error fetching pedido", err, logrus.Fields{"id": id})
		return order.Order{}, mapError(ctx, err)
	}
	o, err := row.toDomain()
	if err != nil {
		return order.Order{}, err
	}

	rows, err := q.QueryContext(ctx, qItemsForOrder, id)
	if err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it order.LineItem
		if err := rows.Scan(&it.Key.OrderID, &it.Key.ProductID, &it.Quantity); err != nil {
			return order.Order{}, mapError(ctx, err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	return o, nil
}
