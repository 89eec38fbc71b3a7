package sqlitestore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qInsertOrder = `INSERT INTO pedido (cliente_id, fecha, total) VALUES (?, ?, ?)`
	qUpdateOrder = `UPDATE pedido SET cliente_id = ?, fecha = ?, total = ? WHERE id = ?`

	qUpsertItem = `
	INSERT INTO pedido_productos (pedido_id, producto_id, cantidad)
	VALUES (?, ?, ?)
	ON CONFLICT (pedido_id, producto_id) DO UPDATE SET cantidad = excluded.cantidad`

	qDeleteAllItems   = `DELETE FROM pedido_productos WHERE pedido_id = ?`
	qStoredProductIDs = `SELECT producto_id FROM pedido_productos WHERE pedido_id = ?`
	qDeleteItem       = `DELETE FROM pedido_productos WHERE pedido_id = ? AND producto_id = ?`
)

// Save inserts the order when it has no id, otherwise overwrites its scalar
// fields and reconciles its line items inside one transaction.
func (s *Store) Save(ctx context.Context, o order.Order) (order.Order, error) {
	if pid, dup := o.DuplicateProductID(); dup {
		return order.Order{}, fmt.Errorf("%w: productoId %d appears more than once in pedido", orders.ErrConflict, pid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	defer func() { _ = tx.Rollback() }()

	fecha := order.FormatDate(o.Date)
	if o.IsNew() {
		res, err := tx.ExecContext(ctx, qInsertOrder, o.ClientID, fecha, o.Total.String())
		if err != nil {
			logging.LogError("Error inserting pedido", err, logrus.Fields{"method": "Save", "cliente_id": o.ClientID})
			return order.Order{}, mapError(ctx, err)
		}
		if o.ID, err = res.LastInsertId(); err != nil {
			return order.Order{}, mapError(ctx, err)
		}
	} else {
		res, err := tx.ExecContext(ctx, qUpdateOrder, o.ClientID, fecha, o.Total.String(), o.ID)
		if err != nil {
			logging.LogError("Error updating pedido", err, logrus.Fields{"method": "Save", "id": o.ID})
			return order.Order{}, mapError(ctx, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return order.Order{}, mapError(ctx, err)
		} else if n == 0 {
			return order.Order{}, orders.ErrNotFound
		}
	}

	o.AttachItems()

	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, qUpsertItem, it.Key.OrderID, it.Key.ProductID, it.Quantity); err != nil {
			logging.LogError("Error upserting pedido item", err, logrus.Fields{"method": "Save", "id": o.ID, "producto_id": it.Key.ProductID})
			return order.Order{}, mapError(ctx, err)
		}
	}

	stored, err := storedProductIDs(ctx, tx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	for _, pid := range orphans(stored, o.ProductIDs()) {
		if _, err := tx.ExecContext(ctx, qDeleteItem, o.ID, pid); err != nil {
			logging.LogError("Error removing orphan pedido item", err, logrus.Fields{"method": "Save", "id": o.ID, "producto_id": pid})
			return order.Order{}, mapError(ctx, err)
		}
	}

	saved, err := findByID(ctx, tx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	logging.LogDebug("Pedido saved", logrus.Fields{"method": "Save", "id": saved.ID, "items": len(saved.Items)})
	return saved, nil
}

func storedProductIDs(ctx context.Context, q querier, orderID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, qStoredProductIDs, orderID)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(ctx, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(ctx, err)
	}
	return ids, nil
}

// orphans returns the stored product ids that are not in keep.
func orphans(stored, keep []int64) []int64 {
	wanted := make(map[int64]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}
	out := make([]int64, 0)
	for _, id := range stored {
		if _, ok := wanted[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
