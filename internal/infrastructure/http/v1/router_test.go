package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/core/dialect"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/infrastructure/storage/sqlite"
	"stocklens/pkg/logger"
)

func newTestRouter(t *testing.T) (*sqlite.Store, http.Handler) {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := NewRouter(RouterConfig{
		Analytics: analytics.NewService(sqlite.NewAnalyticsRepo(store)),
		Storage:   store,
		Dialect:   dialect.SQLite,
		Logger:    logger.Default(),
	})
	return store, router
}

func seed(t *testing.T, store *sqlite.Store, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := store.DB().Exec(stmt)
		require.NoError(t, err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/health/info"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestFinancialSummary_MissingRangeIsBadRequest(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/financial/summary", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestFinancialSummary_InvertedRangeIsBadRequest(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/financial/summary?from=2026-03-31&to=2026-03-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinancialSummary_MalformedDateIsBadRequest(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/financial/summary?from=31-03-2026&to=2026-04-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinancialSummary_HappyPath(t *testing.T) {
	store, router := newTestRouter(t)
	seed(t, store,
		`INSERT INTO suppliers (id, name) VALUES ('sup-1', 'Acme')`,
		`INSERT INTO inventory_items (id, name, supplier_id, price, quantity, minimum_quantity)
		 VALUES ('item-a', 'Widget', 'sup-1', 5.0, 6, 0)`,
		`INSERT INTO stock_events (id, item_id, supplier_id, created_at, quantity_change, price_at_change, reason)
		 VALUES ('ev-1', 'item-a', 'sup-1', '2026-02-10 09:00:00', 10, 5.0, 'MANUAL_UPDATE')`,
		`INSERT INTO stock_events (id, item_id, supplier_id, created_at, quantity_change, price_at_change, reason)
		 VALUES ('ev-2', 'item-a', 'sup-1', '2026-03-05 09:00:00', -4, NULL, 'SOLD')`,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/financial/summary?from=2026-03-01&to=2026-03-31", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Method     string `json:"method"`
		OpeningQty int64  `json:"openingQty"`
		CogsQty    int64  `json:"cogsQty"`
		CogsCost   string `json:"cogsCost"`
		EndingQty  int64  `json:"endingQty"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "WAC", body.Method)
	assert.Equal(t, int64(10), body.OpeningQty)
	assert.Equal(t, int64(4), body.CogsQty)
	assert.Equal(t, "20", body.CogsCost)
	assert.Equal(t, int64(6), body.EndingQty)
}

func TestPriceTrend_RequiresItem(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/price-trend", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowStockCount(t *testing.T) {
	store, router := newTestRouter(t)
	seed(t, store,
		`INSERT INTO suppliers (id, name) VALUES ('sup-1', 'Acme')`,
		`INSERT INTO inventory_items (id, name, supplier_id, price, quantity, minimum_quantity)
		 VALUES ('item-a', 'Widget', 'sup-1', 1.0, 1, 5)`,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/low-stock/count", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Count)
}
