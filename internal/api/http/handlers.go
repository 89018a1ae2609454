package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/webdesk/internal/apps"
	"github.com/GriffinCanCode/webdesk/internal/apps/chat"
	"github.com/GriffinCanCode/webdesk/internal/apps/editor"
	"github.com/GriffinCanCode/webdesk/internal/apps/files"
	"github.com/GriffinCanCode/webdesk/internal/apps/terminal"
	"github.com/GriffinCanCode/webdesk/internal/domain/catalog"
	"github.com/GriffinCanCode/webdesk/internal/domain/interaction"
	"github.com/GriffinCanCode/webdesk/internal/domain/shell"
	"github.com/GriffinCanCode/webdesk/internal/domain/vfs"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/webdesk/internal/shared/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Deps are the components the handlers serve
type Deps struct {
	Windows *window.Manager
	Pointer *interaction.Controller
	Catalog *catalog.Catalog
	Shell   *shell.Shell
	FS      *vfs.Service
	Apps    *apps.Host
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
	// Breaker guards the assistant, reported by the health check when set
	Breaker *resilience.Breaker
}

// Handlers contains all HTTP handlers
type Handlers struct {
	windows *window.Manager
	pointer *interaction.Controller
	catalog *catalog.Catalog
	shell   *shell.Shell
	fs      *vfs.Service
	apps    *apps.Host
	metrics *monitoring.Metrics
	logger  *zap.Logger
	breaker *resilience.Breaker
}

// NewHandlers creates a new handler set
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		windows: d.Windows,
		pointer: d.Pointer,
		catalog: d.Catalog,
		shell:   d.Shell,
		fs:      d.FS,
		apps:    d.Apps,
		metrics: d.Metrics,
		logger:  logger,
		breaker: d.Breaker,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/logs", h.StreamLogs)
	if h.metrics != nil {
		r.GET("/metrics/summary", h.MetricsSummary)
	}

	r.GET("/catalog", h.ListCatalog)

	win := r.Group("/windows")
	win.GET("", h.ListWindows)
	win.POST("", h.OpenApp)
	win.GET("/:id", h.GetWindow)
	win.DELETE("/:id", h.CloseWindow)
	win.POST("/:id/focus", h.FocusWindow)
	win.POST("/:id/minimize", h.MinimizeWindow)
	win.POST("/:id/maximize", h.MaximizeWindow)
	win.PUT("/:id/position", h.MoveWindow)
	win.PUT("/:id/size", h.ResizeWindow)

	r.POST("/pointer", h.Pointer)

	r.GET("/dock", h.Dock)
	r.POST("/dock/:app/click", h.ClickDock)
	r.GET("/desktop", h.Desktop)
	r.GET("/desktop/menu", h.ContextMenu)
	r.POST("/desktop/menu/:action", h.InvokeMenu)
	r.POST("/desktop/icons/:label/open", h.OpenIcon)
	r.POST("/shortcut", h.Shortcut)

	fs := r.Group("/fs")
	fs.GET("/resolve", h.ResolvePath)
	fs.POST("/nodes", h.CreateNode)
	fs.GET("/nodes/:id", h.GetNode)
	fs.DELETE("/nodes/:id", h.DeleteNode)
	fs.GET("/nodes/:id/children", h.GetChildren)
	fs.PUT("/nodes/:id/content", h.UpdateContent)

	app := r.Group("/apps/:id")
	app.GET("/view", h.AppView)
	app.POST("/terminal", h.TerminalExec)
	app.POST("/files/navigate", h.FilesNavigate)
	app.POST("/files/back", h.FilesBack)
	app.POST("/files/select", h.FilesSelect)
	app.POST("/files/open", h.FilesOpen)
	app.POST("/files/create", h.FilesCreate)
	app.POST("/files/delete", h.FilesDelete)
	app.POST("/editor/open", h.EditorOpen)
	app.POST("/editor/edit", h.EditorEdit)
	app.POST("/editor/save", h.EditorSave)
	app.POST("/editor/close", h.EditorClose)
	app.POST("/chat", h.ChatSend)
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "webdesk",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	if h.fs.Degraded() {
		status = "degraded"
	}

	body := gin.H{
		"status":  status,
		"windows": h.windows.Stats(),
		"fs": gin.H{
			"nodes":    h.fs.Snapshot().Len(),
			"degraded": h.fs.Degraded(),
		},
		"app_sessions": h.apps.Len(),
	}
	if h.breaker != nil {
		body["assistant"] = gin.H{"circuit": h.breaker.State().String()}
	}
	c.JSON(http.StatusOK, body)
}

// pathID reads and validates the :id path parameter
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// fail maps a domain error to a status code
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, vfs.ErrNotFound),
		errors.Is(err, apps.ErrNoWindow),
		errors.Is(err, files.ErrNotFound),
		errors.Is(err, editor.ErrGone):
		status = http.StatusNotFound
	case errors.Is(err, terminal.ErrBusy), errors.Is(err, chat.ErrBusy):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}
