package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck_NoDependencies(t *testing.T) {
	rr := httptest.NewRecorder()

	NewHealthHandler(nil)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestHealthCheck_Dependencies(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("dial tcp: connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewHealthHandler(map[string]HealthCheck{"postgres": ok, "redis": ok})(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"API is healthy and running","checks":{"postgres":"ok","redis":"ok"}}`, rr.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewHealthHandler(map[string]HealthCheck{"postgres": ok, "redis": down})(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"API is degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})
}
