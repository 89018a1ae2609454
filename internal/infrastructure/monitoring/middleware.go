package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			int64(c.Writer.Size()),
		)
	}
}

// Timer measures an assistant call.
type Timer struct {
	start   time.Time
	metrics *Metrics
	mode    string
}

// NewTimer starts timing an assistant call in the given mode.
func NewTimer(metrics *Metrics, mode string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, mode: mode}
}

// Stop records the call. A nil receiver metrics is a no-op.
func (t *Timer) Stop(ok bool) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordAICall(t.mode, ok, time.Since(t.start))
}
