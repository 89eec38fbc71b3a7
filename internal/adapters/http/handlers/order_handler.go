package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

type OrderHandlers struct {
	svc serviceInterface
}

type serviceInterface interface {
	ListOrders(ctx context.Context) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (order.Order, error)
	OrdersByClient(ctx context.Context, clientID int64) ([]order.Order, error)
	OrdersByDate(ctx context.Context, date time.Time) ([]order.Order, error)
	OrdersByDateRange(ctx context.Context, from, to time.Time) ([]order.Order, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
	RecentOrders(ctx context.Context, n int) ([]order.Order, error)
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	UpdateOrder(ctx context.Context, id int64, o order.Order) (order.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

func NewOrderHandlers(svc serviceInterface) *OrderHandlers {
	return &OrderHandlers{svc: svc}
}

// Routes mounts the order endpoints on r. Static segments are matched
// before /{id} by chi.
func (h *OrderHandlers) Routes(r chi.Router) {
	r.Get("/", h.ListOrders)
	r.Post("/", h.CreateOrder)
	r.Get("/ultimos", h.RecentOrders)
	r.Get("/fecha", h.OrdersByDate)
	r.Get("/rango-fechas", h.OrdersByDateRange)
	r.Get("/cliente/{clienteId}", h.OrdersByClient)
	r.Get("/cliente/{clienteId}/cantidad", h.CountByClient)
	r.Get("/{id}", h.GetHandler)
	r.Put("/{id}", h.UpdateOrder)
	r.Delete("/{id}", h.DeleteHandler)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeServiceError maps the orders error taxonomy onto HTTP statuses and
// logs the failure under method.
func writeServiceError(w http.ResponseWriter, method string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["method"] = method

	switch {
	case errors.Is(err, orders.ErrInvalidData):
		logging.LogWarn("Invalid request", withErr(fields, err))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrNotFound):
		logging.LogInfo("Pedido not found", withErr(fields, err))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrConflict):
		logging.LogWarn("Conflicting pedido", withErr(fields, err))
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrTimeout):
		logging.LogError("Store call timed out", err, fields)
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		logging.LogError("Internal server error", err, fields)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func withErr(fields logrus.Fields, err error) logrus.Fields {
	fields["error"] = err.Error()
	return fields
}

func ToResponseList(src []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(src))
	for _, o := range src {
		out = append(out, ToResponse(o))
	}
	return out
}
