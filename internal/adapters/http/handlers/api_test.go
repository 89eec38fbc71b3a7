package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reybrally/pedidos-service/internal/adapters/http/handlers"
	"github.com/reybrally/pedidos-service/internal/adapters/sqlitestore"
	"github.com/reybrally/pedidos-service/internal/services"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	r := chi.NewRouter()
	r.Route("/api/v1/pedidos", handlers.NewOrderHandlers(services.NewOrderService(store, nil)).Routes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestAPI_OrderLifecycle(t *testing.T) {
	srv := newAPI(t)

	resp, body := call(t, srv, http.MethodPost, "/api/v1/pedidos",
		`{"clienteId": 2, "fecha": "2025-05-24", "total": 150.25,
		  "productos": [{"id": {"productoId": 8}, "cantidad": 2}, {"id": {"productoId": 4}, "cantidad": 1}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created handlers.OrderResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "/api/v1/pedidos/"+itoa(created.ID), resp.Header.Get("Location"))
	assert.Equal(t, "150.25", created.Total.String())

	resp, body = call(t, srv, http.MethodPut, "/api/v1/pedidos/"+itoa(created.ID),
		`{"clienteId": 2, "fecha": "2025-05-25", "total": "99.5",
		  "productos": [{"id": {"productoId": 8}, "cantidad": 5}, {"id": {"productoId": 9}, "cantidad": 1}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var updated handlers.OrderResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "2025-05-25", updated.Fecha)
	quantities := map[int64]int{}
	for _, it := range updated.Productos {
		quantities[it.ID.ProductID] = it.Cantidad
		assert.Equal(t, created.ID, it.ID.OrderID)
	}
	assert.Equal(t, map[int64]int{8: 5, 9: 1}, quantities)

	resp, _ = call(t, srv, http.MethodGet, "/api/v1/pedidos/cliente/2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/pedidos/cliente/3", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/pedidos/cliente/2/cantidad", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", strings.TrimSpace(string(body)))

	resp, _ = call(t, srv, http.MethodGet, "/api/v1/pedidos/fecha?fecha=2025-05-25", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/pedidos/rango-fechas?desde=2025-05-30&hasta=2025-05-01", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/pedidos/ultimos", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var recent []handlers.OrderResponse
	require.NoError(t, json.Unmarshal(body, &recent))
	assert.Len(t, recent, 1)

	resp, _ = call(t, srv, http.MethodDelete, "/api/v1/pedidos/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodDelete, "/api/v1/pedidos/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/pedidos/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/pedidos", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestAPI_ConflictAndMissingUpdate(t *testing.T) {
	srv := newAPI(t)

	resp, _ := call(t, srv, http.MethodPost, "/api/v1/pedidos",
		`{"clienteId": 1, "fecha": "2025-01-01", "total": 1,
		  "productos": [{"id": {"productoId": 3}, "cantidad": 1}, {"id": {"productoId": 3}, "cantidad": 2}]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPut, "/api/v1/pedidos/999",
		`{"clienteId": 1, "fecha": "2025-01-01", "total": 1, "productos": []}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := call(t, srv, http.MethodGet, "/api/v1/pedidos", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}
