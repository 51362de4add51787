package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	before := testutil.ToFloat64(StatusTransitions.WithLabelValues("pending", "approved"))
	ObserveTransition("pending", "approved")
	assert.Equal(t, before+1, testutil.ToFloat64(StatusTransitions.WithLabelValues("pending", "approved")))
}

func TestCacheObserver(t *testing.T) {
	obs := CacheObserver("tags")
	before := testutil.ToFloat64(CacheEvents.WithLabelValues("tags", "hit"))
	obs("hit")
	obs("hit")
	assert.Equal(t, before+2, testutil.ToFloat64(CacheEvents.WithLabelValues("tags", "hit")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	reg := InitRegistry()
	ObserveHTTP("/api/tags", "GET", 200, 15*time.Millisecond)
	AuditBacklog.Set(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `hotel_admin_http_requests_total{method="GET",route="/api/tags",status="200"}`)
	assert.Contains(t, string(body), "hotel_admin_hotel_audit_backlog 3")
}
