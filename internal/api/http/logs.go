package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxLogBatch is the most renderer log entries accepted per request
const MaxLogBatch = 200

// RendererLogEntry is one log line from the browser renderer
type RendererLogEntry struct {
	ID        string         `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
}

// RendererLogRequest is a batch of renderer log entries
type RendererLogRequest struct {
	Source  string             `json:"source"`
	Entries []RendererLogEntry `json:"entries"`
}

// StreamLogs writes renderer log batches into the server log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req RendererLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log request format"})
		return
	}
	if req.Source != "ui" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log source"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No log entries provided"})
		return
	}
	if len(req.Entries) > MaxLogBatch {
		req.Entries = req.Entries[:MaxLogBatch]
	}

	logger := h.logger.Named("renderer")
	for _, entry := range req.Entries {
		writeEntry(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"entries_processed": len(req.Entries),
		"timestamp":         time.Now().Unix(),
	})
}

func writeEntry(logger *zap.Logger, entry RendererLogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+2)
	fields = append(fields,
		zap.String("ui_log_id", entry.ID),
		zap.String("ui_timestamp", entry.Timestamp),
	)
	for key, value := range entry.Context {
		fields = append(fields, zap.Any(key, value))
	}

	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
