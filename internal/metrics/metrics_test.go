package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("get", "/api/projects/:id", 404, 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/projects/:id", 404, 10*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/projects/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestInFlight(t *testing.T) {
	m := New()
	m.Begin()
	m.Begin()
	m.End()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/api/users/login", 201, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `portfolio_http_requests_total{method="POST",route="/api/users/login",status="201"} 1`))
	assert.Contains(t, body, "portfolio_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
