package repo

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const qFindFullOrderByID = `
SELECT
  o.id,
  o.cliente_id,
  o.fecha,
  o.total::text,

  i.producto_id,
  i.cantidad
FROM pedido o
LEFT JOIN pedido_productos i ON i.pedido_id = o.id
WHERE o.id = $1
ORDER BY i.producto_id;
`

const qExistsOrder = `SELECT EXISTS (SELECT 1 FROM pedido WHERE id = $1);`

func (r *OrderRepo) FindByID(ctx context.Context, id int64) (order.Order, error) {
	o, err := findByID(ctx, r.pool, id)
	if err != nil {
		return order.Order{}, err
	}
	logging.LogDebug("Pedido fetched successfully", logrus.Fields{"id": id})
	return o, nil
}

func (r *OrderRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, qExistsOrder, id).Scan(&exists); err != nil {
		logging.LogError("Error checking pedido existence", err, logrus.Fields{"id": id})
		return false, mapError(ctx, err)
	}
	return exists, nil
}

func findByID(ctx context.Context, q querier, id int64) (order.Order, error) {
	rows, err := q.Query(ctx, qFindFullOrderByID, id)
	if err != nil {
		logging.LogError("Error executing query to fetch pedido", err, logrus.Fields{"id": id})
		return order.Order{}, mapError(ctx, err)
	}
	defer rows.Close()

	var (
		found bool
		out   order.Order
	)
	for rows.Next() {
		var (
			row        OrderRow
			iProductID *int64
			iQuantity  *int32
		)
		if err := rows.Scan(&row.ID, &row.ClientID, &row.Fecha, &row.Total, &iProductID, &iQuantity); err != nil {
			logging.LogError("Error scanning row for pedido", err, logrus.Fields{"id": id})
			return order.Order{}, mapError(ctx, err)
		}

		if !found {
			found = true
			if out, err = row.ToDomain(); err != nil {
				return order.Order{}, err
			}
		}

		if iProductID != nil {
			out.Items = append(out.Items, ItemRow{
				OrderID:   row.ID,
				ProductID: *iProductID,
				Quantity:  int(derefI32(iQuantity)),
			}.ToDomain())
		}
	}
	if err := rows.Err(); err != nil {
		logging.LogError("Error iterating over rows", err, logrus.Fields{"id": id})
		return order.Order{}, mapError(ctx, err)
	}
	if !found {
		return order.Order{}, orders.ErrNotFound
	}
	return out, nil
}

func derefI32(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}
