package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
)

// OrderRequest is the body of POST and PUT. Any id it carries is ignored:
// creation always generates one and updates take it from the path.
type OrderRequest struct {
	ID        *int64          `json:"id,omitempty"`
	ClientID  int64           `json:"clienteId"`
	Fecha     string          `json:"fecha"`
	Total     decimal.Decimal `json:"total"`
	Productos []LineItemDTO   `json:"productos"`
}

type KeyDTO struct {
	OrderID   int64 `json:"pedidoId"`
	ProductID int64 `json:"productoId"`
}

type LineItemDTO struct {
	ID       KeyDTO `json:"id"`
	Cantidad int    `json:"cantidad"`
}

func (r OrderRequest) ToModel() (order.Order, error) {
	if r.Fecha == "" {
		return order.Order{}, fmt.Errorf("%w: fecha is required", orders.ErrInvalidData)
	}
	date, err := order.ParseDate(r.Fecha)
	if err != nil {
		return order.Order{}, fmt.Errorf("%w: fecha must be YYYY-MM-DD", orders.ErrInvalidData)
	}

	out := order.Order{
		ClientID: r.ClientID,
		Date:     date,
		Total:    r.Total,
		Items:    make([]order.LineItem, 0, len(r.Productos)),
	}
	for _, it := range r.Productos {
		out.Items = append(out.Items, order.NewLineItem(it.ID.ProductID, it.Cantidad))
	}
	return out, nil
}

type OrderResponse struct {
	ID        int64         `json:"id"`
	ClientID  int64         `json:"clienteId"`
	Fecha     string        `json:"fecha"`
	Total     json.Number   `json:"total"`
	Productos []LineItemDTO `json:"productos"`
}

func ToResponse(o order.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		ClientID:  o.ClientID,
		Fecha:     order.FormatDate(o.Date),
		Total:     json.Number(o.Total.String()),
		Productos: make([]LineItemDTO, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Productos = append(resp.Productos, LineItemDTO{
			ID:       KeyDTO{OrderID: it.Key.OrderID, ProductID: it.Key.ProductID},
			Cantidad: it.Quantity,
		})
	}
	return resp
}
