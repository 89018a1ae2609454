package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/webdesk/internal/api/http"
	"github.com/GriffinCanCode/webdesk/internal/api/middleware"
	"github.com/GriffinCanCode/webdesk/internal/api/ws"
	"github.com/GriffinCanCode/webdesk/internal/apps"
	"github.com/GriffinCanCode/webdesk/internal/domain/ai"
	"github.com/GriffinCanCode/webdesk/internal/domain/catalog"
	"github.com/GriffinCanCode/webdesk/internal/domain/interaction"
	"github.com/GriffinCanCode/webdesk/internal/domain/shell"
	"github.com/GriffinCanCode/webdesk/internal/domain/vfs"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	srv     *http.Server
	fs      *vfs.Service
	host    *apps.Host
	hub     *ws.Hub
	tracer  *tracing.Tracer
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing webdesk server",
		zap.String("port", cfg.Server.Port),
		zap.String("vfs_path", cfg.Storage.Path),
		zap.Bool("ai_key", cfg.AI.APIKey != ""),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("webdesk", logger.Component("tracing"))

	appCatalog, err := loadCatalog(cfg.Desktop.CatalogPath)
	if err != nil {
		tracer.Close()
		return nil, err
	}

	fs, err := openFS(cfg.Storage, logger, metrics)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	logger.Info("File system ready",
		zap.Int("nodes", fs.Snapshot().Len()),
		zap.Bool("degraded", fs.Degraded()),
	)

	layout := window.Layout{
		Viewport:    types.WindowSize{Width: cfg.Desktop.ViewportWidth, Height: cfg.Desktop.ViewportHeight},
		TopBar:      cfg.Desktop.TopBarHeight,
		DockWidth:   cfg.Desktop.DockWidth,
		CascadeStep: cfg.Desktop.CascadeStep,
		ZBase:       cfg.Desktop.ZBase,
	}
	windows := window.NewManager(appCatalog, layout).
		WithMetrics(metrics).
		WithLogger(logger.Component("window"))

	geometry := interaction.DefaultGeometry()
	geometry.MinWidth = cfg.Desktop.MinWindowWidth
	geometry.MinHeight = cfg.Desktop.MinWindowHeight
	pointer := interaction.NewController(windows,
		interaction.WithGeometry(geometry),
		interaction.WithClamp(layout.WorkArea()),
		interaction.WithMetrics(metrics),
		interaction.WithLogger(logger.Logger),
	)

	aiCfg := ai.DefaultConfig()
	aiCfg.APIKey = cfg.AI.APIKey
	aiCfg.Model = cfg.AI.Model
	aiCfg.Endpoint = cfg.AI.Endpoint
	aiCfg.Timeout = cfg.AI.Timeout
	gemini := ai.NewGemini(aiCfg).
		WithLogger(logger.Logger).
		WithMetrics(metrics)

	host := apps.New(windows, fs, gemini,
		apps.WithPollInterval(cfg.Desktop.FilesPollInterval),
		apps.WithTaskTimeout(cfg.AI.Timeout),
		apps.WithLogger(logger.Logger),
		apps.WithMetrics(metrics),
	)
	hub := ws.NewHub(windows, pointer, host,
		ws.WithLogger(logger.Logger),
		ws.WithMetrics(metrics),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Logger))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Windows: windows,
		Pointer: pointer,
		Catalog: appCatalog,
		Shell:   shell.New(windows, appCatalog),
		FS:      fs,
		Apps:    host,
		Metrics: metrics,
		Logger:  logger.Logger,
		Breaker: gemini.Breaker(),
	})
	handlers.Register(router)
	router.GET("/stream", hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		fs:      fs,
		host:    host,
		hub:     hub,
		tracer:  tracer,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load app catalog: %w", err)
	}
	return c, nil
}

// openFS builds the file system over the configured store and seed
func openFS(cfg config.StorageConfig, logger *logging.Logger, metrics *monitoring.Metrics) (*vfs.Service, error) {
	var store vfs.Store = vfs.NewMemoryStore()
	if cfg.Path != "" {
		store = vfs.NewFileStore(cfg.Path)
	}

	opts := []vfs.Option{
		vfs.WithLogger(logger.Logger),
		vfs.WithMetrics(metrics),
	}
	switch {
	case cfg.SeedPath != "":
		opts = append(opts, vfs.WithSeed(func(now time.Time) ([]types.Node, error) {
			return vfs.LoadSeed(cfg.SeedPath, now)
		}))
	case cfg.SeedDir != "":
		opts = append(opts, vfs.WithSeed(func(now time.Time) ([]types.Node, error) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			return vfs.ImportDir(ctx, cfg.SeedDir, now)
		}))
	}

	fs, err := vfs.New(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open file system: %w", err)
	}
	return fs, nil
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	s.hub.Close()
	err := s.srv.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		err = fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.host.Close()
	s.tracer.Close()

	if s.fs.Degraded() {
		s.logger.Warn("File system changes since degrading were not persisted")
	}

	// Sync logger before exit
	s.logger.Sync()
	return err
}
