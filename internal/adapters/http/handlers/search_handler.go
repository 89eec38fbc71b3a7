package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/adapters/http/handlers/validation"
	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/logging"
)

func (h *OrderHandlers) OrdersByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := validation.PositiveID("clienteId", chi.URLParam(r, "clienteId"))
	if err != nil {
		writeServiceError(w, "OrdersByClient", err, nil)
		return
	}

	list, err := h.svc.OrdersByClient(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, "OrdersByClient", err, logrus.Fields{"cliente_id": clientID})
		return
	}
	logging.LogDebug("Pedidos found", logrus.Fields{"method": "OrdersByClient", "cliente_id": clientID, "count": len(list)})
	writeJSON(w, http.StatusOK, ToResponseList(list))
}

// CountByClient accepts any integer; clients without orders count zero.
func (h *OrderHandlers) CountByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := validation.ID("clienteId", chi.URLParam(r, "clienteId"))
	if err != nil {
		writeServiceError(w, "CountByClient", err, nil)
		return
	}

	n, err := h.svc.CountByClient(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, "CountByClient", err, logrus.Fields{"cliente_id": clientID})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *OrderHandlers) OrdersByDate(w http.ResponseWriter, r *http.Request) {
	date, err := validation.ISODate("fecha", r.URL.Query().Get("fecha"))
	if err != nil {
		writeServiceError(w, "OrdersByDate", err, nil)
		return
	}

	list, err := h.svc.OrdersByDate(r.Context(), date)
	if err != nil {
		writeServiceError(w, "OrdersByDate", err, logrus.Fields{"fecha": r.URL.Query().Get("fecha")})
		return
	}
	logging.LogDebug("Pedidos found", logrus.Fields{"method": "OrdersByDate", "count": len(list)})
	writeJSON(w, http.StatusOK, ToResponseList(list))
}

func (h *OrderHandlers) OrdersByDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := validation.ISODate("desde", q.Get("desde"))
	if err != nil {
		writeServiceError(w, "OrdersByDateRange", err, nil)
		return
	}
	to, err := validation.ISODate("hasta", q.Get("hasta"))
	if err != nil {
		writeServiceError(w, "OrdersByDateRange", err, nil)
		return
	}

	list, err := h.svc.OrdersByDateRange(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, "OrdersByDateRange", err, logrus.Fields{"desde": q.Get("desde"), "hasta": q.Get("hasta")})
		return
	}
	logging.LogDebug("Pedidos found", logrus.Fields{"method": "OrdersByDateRange", "count": len(list)})
	writeJSON(w, http.StatusOK, ToResponseList(list))
}

func (h *OrderHandlers) RecentOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.RecentOrders(r.Context(), orders.DefaultRecentLimit)
	if err != nil {
		writeServiceError(w, "RecentOrders", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, ToResponseList(list))
}
