package middleware

import (
	"time"

	"github.com/GriffinCanCode/webdesk/internal/infrastructure/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig is passed straight to gin-contrib/cors.
type CORSConfig = cors.Config

// correlationHeaders travel both ways so the renderer can tie its own log
// lines to server requests.
var correlationHeaders = []string{RequestIDHeader, tracing.TraceHeader, tracing.SpanHeader}

// DefaultCORSConfig allows any origin. The renderer is usually served from
// a different port in development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    append([]string{"Content-Type", "Accept", "Origin", "Cache-Control"}, correlationHeaders...),
		ExposeHeaders:   correlationHeaders,
		MaxAge:          12 * time.Hour,
	}
}

// CORS returns the cross-origin middleware. An empty origin list means any
// origin.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 && cfg.AllowOriginFunc == nil {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
