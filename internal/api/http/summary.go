package http

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// MetricsSummary provides high-level metrics for dashboards that do not
// scrape Prometheus
type MetricsSummary struct {
	Timestamp         time.Time         `json:"timestamp"`
	TotalRequests     int64             `json:"total_requests"`
	AverageLatencyMs  float64           `json:"average_latency_ms"`
	ErrorRate         float64           `json:"error_rate"`
	ActiveConnections int64             `json:"active_connections"`
	UptimeSeconds     float64           `json:"uptime_seconds"`
	Windows           types.WindowStats `json:"windows"`
	FSNodes           int               `json:"fs_nodes"`
	FSDegraded        bool              `json:"fs_degraded"`
}

// MetricsSummary returns the JSON summary
func (h *Handlers) MetricsSummary(c *gin.Context) {
	snap := h.metrics.Snapshot()

	var errorRate float64
	if snap.TotalRequests > 0 {
		errorRate = float64(snap.TotalErrors) / float64(snap.TotalRequests)
	}

	c.JSON(http.StatusOK, MetricsSummary{
		Timestamp:         time.Now(),
		TotalRequests:     snap.TotalRequests,
		AverageLatencyMs:  snap.AvgLatencyMS,
		ErrorRate:         errorRate,
		ActiveConnections: snap.ActiveConnections,
		UptimeSeconds:     snap.UptimeSeconds,
		Windows:           h.windows.Stats(),
		FSNodes:           h.fs.Snapshot().Len(),
		FSDegraded:        h.fs.Degraded(),
	})
}
