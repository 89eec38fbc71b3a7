package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const (
	qInsertOrder = `
	INSERT INTO pedido (cliente_id, fecha, total)
	VALUES ($1, $2, $3::numeric)
	RETURNING id;`

	qUpdateOrder = `
	UPDATE pedido
	SET cliente_id = $2,
	    fecha      = $3,
	    total      = $4::numeric
	WHERE id = $1;`

	qUpsertItem = `
	INSERT INTO pedido_productos (pedido_id, producto_id, cantidad)
	VALUES ($1, $2, $3)
	ON CONFLICT (pedido_id, producto_id) DO UPDATE SET
	    cantidad = EXCLUDED.cantidad;`

	// Orphan removal: every stored pair whose product left the incoming set.
	qDeleteOrphanItems = `
	DELETE FROM pedido_productos
	WHERE pedido_id = $1
	  AND producto_id <> ALL($2::bigint[]);`
)

// Save inserts the order when it has no id, otherwise overwrites its scalar
// fields and reconciles its line items. Everything happens in one transaction.
func (r *OrderRepo) Save(ctx context.Context, o order.Order) (order.Order, error) {
	if pid, dup := o.DuplicateProductID(); dup {
		return order.Order{}, fmt.Errorf("%w: productoId %d appears more than once in pedido", orders.ErrConflict, pid)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if o.IsNew() {
		if err := tx.QueryRow(ctx, qInsertOrder, o.ClientID, o.Date, o.Total.String()).Scan(&o.ID); err != nil {
			logging.LogError("Error inserting pedido", err, logrus.Fields{"method": "Save", "cliente_id": o.ClientID})
			return order.Order{}, mapError(ctx, err)
		}
	} else {
		ct, err := tx.Exec(ctx, qUpdateOrder, o.ID, o.ClientID, o.Date, o.Total.String())
		if err != nil {
			logging.LogError("Error updating pedido", err, logrus.Fields{"method": "Save", "id": o.ID})
			return order.Order{}, mapError(ctx, err)
		}
		if ct.RowsAffected() == 0 {
			return order.Order{}, orders.ErrNotFound
		}
	}

	o.AttachItems()

	if len(o.Items) > 0 {
		batch := &pgx.Batch{}
		for _, it := range o.Items {
			batch.Queue(qUpsertItem, it.Key.OrderID, it.Key.ProductID, it.Quantity)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			logging.LogError("Error upserting pedido items", err, logrus.Fields{"method": "Save", "id": o.ID})
			return order.Order{}, mapError(ctx, err)
		}
	}

	if _, err := tx.Exec(ctx, qDeleteOrphanItems, o.ID, o.ProductIDs()); err != nil {
		logging.LogError("Error removing orphan pedido items", err, logrus.Fields{"method": "Save", "id": o.ID})
		return order.Order{}, mapError(ctx, err)
	}

	saved, err := findByID(ctx, tx, o.ID)
	if err != nil {
		return order.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, mapError(ctx, err)
	}
	logging.LogDebug("Pedido saved", logrus.Fields{"method": "Save", "id": saved.ID, "items": len(saved.Items)})
	return saved, nil
}
