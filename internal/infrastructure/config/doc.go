// Package config provides 12-factor configuration management for the webdesk backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Storage: VFS blob location and seed sources
//   - Desktop: Viewport, cascade, z-order base and minimum window size
//   - AI: Gemini text service settings
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - VFS_PATH, VFS_SEED_PATH, VFS_SEED_DIR
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT, CASCADE_STEP, Z_BASE
//   - MIN_WINDOW_WIDTH, MIN_WINDOW_HEIGHT, CATALOG_PATH, FILES_POLL_INTERVAL
//   - GEMINI_API_KEY, AI_MODEL, AI_ENDPOINT, AI_TIMEOUT
package config
