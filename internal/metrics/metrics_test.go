package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	r := New()
	r.Observe("ok")
	r.Observe("ok")
	r.Observe("missing_auth")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("missing_auth")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `visits_requests_total{outcome="ok"} 2`)
}
