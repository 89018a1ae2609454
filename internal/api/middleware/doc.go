// Package middleware provides the HTTP middleware stack for the desktop
// service.
//
// Middleware stack includes:
//   - CORS: any origin by default, correlation headers exposed
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - RequestID: UUID request ids echoed in X-Request-ID
//   - Logger: One zap line per request
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
