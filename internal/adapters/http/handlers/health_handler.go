package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/pedidos-service/internal/logging"
)

var startedAt = time.Now()

// HealthHandler is the liveness probe.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":     "ok",
		"service":    "pedidos-service",
		"started_at": startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(startedAt).Seconds()),
	}
	writeJSON(w, http.StatusOK, resp)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyHandler answers 503 until the store responds to a ping.
func ReadyHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			logging.LogError("readiness: store not ready", err, logrus.Fields{})
			writeError(w, http.StatusServiceUnavailable, "store not ready")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
