package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gridpoint/internal/config"
	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestHandler(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	return NewServer(st, config.ServerConfig{AllowedOrigins: []string{"*"}}).Handler()
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestHandler(t, nil), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := NewServer(nil, config.ServerConfig{RateLimit: 0.001, Burst: 2}).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/encode?lat=0&lon=0").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/encode?lat=0&lon=0").Code)

	rr := do(t, h, http.MethodGet, "/v1/encode?lat=0&lon=0")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	// Health is outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health").Code)
}

func TestCORS(t *testing.T) {
	h := NewServer(nil, config.ServerConfig{AllowedOrigins: []string{"https://maps.example.com"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/encode", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://maps.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPlacesDisabledWithoutStore(t *testing.T) {
	rr := do(t, newTestHandler(t, nil), http.MethodGet, "/v1/places")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type failingStore struct{ store.Store }

func (failingStore) ListPlaces(context.Context, store.PlaceFilter) ([]model.Place, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailure(t *testing.T) {
	rr := do(t, newTestHandler(t, failingStore{}), http.MethodGet, "/v1/places")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}
