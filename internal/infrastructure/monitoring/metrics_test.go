package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewMetrics()
		_ = NewMetrics()
	})
}

func TestPersistCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordPersist(nil)
	m.RecordPersist(nil)
	m.RecordPersist(errors.New("disk full"))
	m.SetFSDegraded(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FSPersists))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FSPersistErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FSDegraded))
}

func TestWindowOps(t *testing.T) {
	m := NewMetrics()
	m.RecordWindowOp("focus", true)
	m.RecordWindowOp("focus", false)
	m.SetWindowsOpen(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowOps.WithLabelValues("focus", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowOps.WithLabelValues("focus", "miss")))
	assert.Equal(t, int64(3), m.Snapshot().OpenWindows)
}

func TestSnapshotCountsErrors(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("GET", "/a", "200", 10*time.Millisecond, 10)
	m.RecordHTTPRequest("GET", "/a", "404", 30*time.Millisecond, 10)

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.InDelta(t, 20.0, s.AvgLatencyMS, 0.001)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `webdesk_http_requests_total{method="GET",path="/ping",status="200"} 1`)
}

func TestTimerNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() { NewTimer(nil, "generate").Stop(true) })
}
