package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/metrics"
)

type staticStore struct{ n string }

func (s staticStore) IncrementVisit(context.Context, string, string) (json.RawMessage, error) {
	return json.RawMessage(s.n), nil
}

func newTestHandler() http.Handler {
	cfg := &config.Config{AllowedOrigins: []string{"https://app.example"}}
	return requestLogger(newHandler(cfg, staticStore{n: "7"}, metrics.New()))
}

func TestVisitRoutes(t *testing.T) {
	h := newTestHandler()
	for _, path := range []string{"/", functionPath} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"company_name":"Acme"}`))
		req.Header.Set("Authorization", "Bearer abc123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"message":"Visit incremented successfully","visits":7}`, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), path)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `visits_requests_total{outcome="missing_auth"} 1`)
}
