package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuery("search", 2*time.Millisecond)
	m.ObserveQuery("search", time.Millisecond)
	m.EmptyResult("search")
	m.ObserveBuild(3*time.Second, 42, map[string]int{"orphan": 2})
	m.CacheResult("hit")

	assert.InDelta(t, 2, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("search")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EmptyResultsTotal.WithLabelValues("search")), 1e-9)
	assert.InDelta(t, 42, testutil.ToFloat64(m.BuildDocuments), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SkippedRecords.WithLabelValues("orphan")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")), 1e-9)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ruaddress_queries_total")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveQuery("code", time.Millisecond)
	m.EmptyResult("code")
	m.ObserveBuild(time.Second, 1, nil)
	m.CacheResult("miss")
}
