package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/adapters/http/handlers/validation"
	"github.com/reybrally/pedidos-service/internal/logging"
)

func (h *OrderHandlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PositiveID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "DeleteHandler", err, nil)
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, "DeleteHandler", err, logrus.Fields{"id": id})
		return
	}
	logging.LogInfo("Pedido deleted", logrus.Fields{"method": "DeleteHandler", "id": id})
	w.WriteHeader(http.StatusNoContent)
}
