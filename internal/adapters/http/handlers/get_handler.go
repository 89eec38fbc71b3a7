package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/adapters/http/handlers/validation"
	"github.com/reybrally/pedidos-service/internal/logging"
)

func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, "ListOrders", err, nil)
		return
	}
	logging.LogDebug("Pedidos listed", logrus.Fields{"method": "ListOrders", "count": len(list)})
	writeJSON(w, http.StatusOK, ToResponseList(list))
}

func (h *OrderHandlers) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PositiveID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "GetHandler", err, nil)
		return
	}

	logging.LogDebug("Fetching pedido", logrus.Fields{"method": "GetHandler", "id": id})

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetHandler", err, logrus.Fields{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, ToResponse(o))
}
