package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/adapters/http/handlers/validation"
	"github.com/reybrally/pedidos-service/internal/logging"
)

func (h *OrderHandlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PositiveID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "UpdateOrder", err, nil)
		return
	}

	o, err := decodeOrder(w, r)
	if err != nil {
		writeServiceError(w, "UpdateOrder", err, logrus.Fields{"id": id})
		return
	}

	updated, err := h.svc.UpdateOrder(r.Context(), id, o)
	if err != nil {
		writeServiceError(w, "UpdateOrder", err, logrus.Fields{"id": id})
		return
	}

	logging.LogInfo("Pedido updated", logrus.Fields{"method": "UpdateOrder", "id": id})
	writeJSON(w, http.StatusOK, ToResponse(updated))
}
