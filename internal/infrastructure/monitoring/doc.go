/*
Package monitoring collects Prometheus metrics for the desktop service.

Each Metrics value owns a private registry, so tests and multiple servers in
one process never collide on registration.

# Coverage

  - HTTP requests (count, latency, response size) keyed by route template
  - Open windows, windows created per app kind, manager operations
  - Completed pointer gestures (drag, resize, maximize toggles)
  - File system node count, mutations, persist successes and failures,
    and the degraded flag
  - Assistant calls and latency
  - Terminal commands per name
  - WebSocket connections and messages

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
