// Package logging builds the zap loggers used across webdesk.
//
// Production output is JSON on stdout; development output is colored
// console text at debug level. Subsystems receive a *zap.Logger named after
// themselves (window, vfs, pointer, apps, ws, http, renderer) and default
// to zap.NewNop when none is given.
//
//	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
//	defer logger.Sync()
//	logger.Component("vfs").Info("loaded", zap.Int("nodes", n))
package logging
