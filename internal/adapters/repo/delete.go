package repo

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qDeleteOrderItems = `DELETE FROM pedido_productos WHERE pedido_id = $1;`
	qDeleteOrder      = `DELETE FROM pedido WHERE id = $1;`
)

// DeleteByID removes the order and all of its line items atomically.
func (r *OrderRepo) DeleteByID(ctx context.Context, id int64) error {
	logging.LogInfo("Attempting to delete pedido", logrus.Fields{"id": id})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError(ctx, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, qDeleteOrderItems, id); err != nil {
		logging.LogError("Error deleting pedido items", err, logrus.Fields{"id": id})
		return mapError(ctx, err)
	}
	ct, err := tx.Exec(ctx, qDeleteOrder, id)
	if err != nil {
		logging.LogError("Error executing DELETE query", err, logrus.Fields{"id": id})
		return mapError(ctx, err)
	}
	if ct.RowsAffected() == 0 {
		logging.LogError("Pedido not found to delete", nil, logrus.Fields{"id": id})
		return orders.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(ctx, err)
	}
	logging.LogInfo("Pedido deleted successfully", logrus.Fields{"id": id})
	return nil
}
