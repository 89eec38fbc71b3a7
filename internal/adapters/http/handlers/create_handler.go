package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
)

const maxBodyBytes = 1 << 20

func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	o, err := decodeOrder(w, r)
	if err != nil {
		writeServiceError(w, "CreateOrder", err, nil)
		return
	}

	created, err := h.svc.CreateOrder(r.Context(), o)
	if err != nil {
		writeServiceError(w, "CreateOrder", err, logrus.Fields{"cliente_id": o.ClientID})
		return
	}

	w.Header().Set("Location", path.Join(r.URL.Path, strconv.FormatInt(created.ID, 10)))
	logging.LogInfo("Pedido created", logrus.Fields{"method": "CreateOrder", "id": created.ID})
	writeJSON(w, http.StatusCreated, ToResponse(created))
}

// decodeOrder reads an OrderRequest body; every failure is ErrInvalidData.
func decodeOrder(w http.ResponseWriter, r *http.Request) (order.Order, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return order.Order{}, fmt.Errorf("%w: malformed body: %v", orders.ErrInvalidData, err)
	}
	logging.LogDebug("Request body decoded", logrus.Fields{"cliente_id": req.ClientID, "items": len(req.Productos)})
	return req.ToModel()
}
