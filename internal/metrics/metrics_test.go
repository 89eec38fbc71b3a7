package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(metric))
	return metric.Counter.GetValue()
}

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegisterer(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/pedidos/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/pedidos/1", "/pedidos/2", "/pedidos/404"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, m.requests, "GET", "/pedidos/{id}", "200"))
	assert.Equal(t, 1.0, counterValue(t, m.requests, "GET", "/pedidos/{id}", "404"))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, f := range families {
		if f.GetName() == "pedidos_http_request_duration_seconds" {
			for _, metric := range f.GetMetric() {
				samples += metric.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, uint64(3), samples)
}

func TestHTTPMetrics_ReRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewHTTPMetricsWithRegisterer(reg)
	second := NewHTTPMetricsWithRegisterer(reg)
	assert.Same(t, first.requests, second.requests)
}

type stubPublisher struct{ err error }

func (s stubPublisher) OrderSaved(context.Context, domain.Order) error { return s.err }
func (s stubPublisher) OrderDeleted(context.Context, int64) error      { return s.err }

func TestInstrumentedPublisher(t *testing.T) {
	reg := prometheus.NewRegistry()
	ok := NewInstrumentedPublisher(orders.NopPublisher{}, reg)
	require.NoError(t, ok.OrderSaved(context.Background(), domain.Order{ID: 1}))
	require.NoError(t, ok.OrderDeleted(context.Background(), 1))

	boom := errors.New("broker down")
	failing := NewInstrumentedPublisher(stubPublisher{err: boom}, reg)
	assert.ErrorIs(t, failing.OrderSaved(context.Background(), domain.Order{ID: 2}), boom)

	assert.Equal(t, 1.0, counterValue(t, ok.published, "pedido.saved", "ok"))
	assert.Equal(t, 1.0, counterValue(t, ok.published, "pedido.deleted", "ok"))
	assert.Equal(t, 1.0, counterValue(t, ok.published, "pedido.saved", "error"))
}
