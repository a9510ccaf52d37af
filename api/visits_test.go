package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/store"
	"github.com/advayc/visits/internal/visits"
)

func resetEndpoint(t *testing.T) {
	t.Helper()
	endpoint = nil
	openStore = store.Open
	t.Cleanup(func() {
		endpoint = nil
		openStore = store.Open
	})
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
}

func post(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"company_name":"Acme"}`))
	req.Header.Set("Authorization", "Bearer abc123")
	rec := httptest.NewRecorder()
	Handler(rec, req)
	return rec
}

type staticStore struct{}

func (staticStore) IncrementVisit(context.Context, string, string) (json.RawMessage, error) {
	return json.RawMessage("3"), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func TestHandlerForwardsToSupabase(t *testing.T) {
	resetEndpoint(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/increment_visit", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("5"))
	}))
	defer upstream.Close()

	t.Setenv("VISITS_BACKEND", "postgrest")
	t.Setenv("SUPABASE_URL", upstream.URL)
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	rec := post(t)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Visit incremented successfully","visits":5}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandlerRetriesFailedStoreOpen(t *testing.T) {
	resetEndpoint(t)
	t.Setenv("VISITS_BACKEND", "redis")

	attempts := 0
	openStore = func(context.Context, *config.Config) (visits.Incrementer, io.Closer, error) {
		attempts++
		if attempts == 1 {
			return nil, nil, errors.New("redis ping: connection refused")
		}
		return staticStore{}, nopCloser{}, nil
	}

	rec := post(t)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = post(t)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Visit incremented successfully","visits":3}`, rec.Body.String())

	post(t)
	assert.Equal(t, 2, attempts)
}
