package http

import (
	"net/http"

	"github.com/GriffinCanCode/webdesk/internal/domain/interaction"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// WindowView is a window with its on-screen frame
type WindowView struct {
	types.WindowInstance
	Frame types.Rect `json:"frame"`
}

// ListCatalog returns every installable application
func (h *Handlers) ListCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apps": h.catalog.All()})
}

// ListWindows returns all windows in creation order
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.windows.Windows(),
		"stats":   h.windows.Stats(),
	})
}

// OpenApp opens or reuses a window
func (h *Handlers) OpenApp(c *gin.Context) {
	var req types.OpenAppRequest
	if !bind(c, &req) {
		return
	}

	var opts []window.OpenOption
	if req.Title != nil {
		opts = append(opts, window.WithTitle(*req.Title))
	}

	id, err := h.windows.OpenApp(req.AppID, req.Data, opts...)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondWindow(c, id)
}

// GetWindow returns one window
func (h *Handlers) GetWindow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondWindow(c, id)
}

// CloseWindow removes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !h.windows.CloseWindow(id) {
		notFound(c, "window")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "instance_id": id})
}

// FocusWindow brings a window to the front
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.apply(c, h.windows.FocusWindow)
}

// MinimizeWindow toggles a window's minimized flag
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.apply(c, h.windows.MinimizeWindow)
}

// MaximizeWindow toggles a window's maximized flag
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.apply(c, h.windows.MaximizeWindow)
}

// MoveWindow overwrites a window position
func (h *Handlers) MoveWindow(c *gin.Context) {
	var req types.MoveRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(id string) bool {
		return h.windows.MoveWindow(id, req.X, req.Y)
	})
}

// ResizeWindow overwrites a window size
func (h *Handlers) ResizeWindow(c *gin.Context) {
	var req types.ResizeRequest
	if !bind(c, &req) {
		return
	}
	h.apply(c, func(id string) bool {
		return h.windows.ResizeWindow(id, req.Width, req.Height)
	})
}

// Pointer feeds one pointer event to the interaction controller
func (h *Handlers) Pointer(c *gin.Context) {
	var req types.PointerRequest
	if !bind(c, &req) {
		return
	}

	ev, ok := interaction.EventFrom(req)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pointer event kind: " + req.Kind})
		return
	}
	c.JSON(http.StatusOK, h.pointer.Handle(ev))
}

// apply runs a manager call on the :id window and answers with the result.
// A false return from op means the window does not exist.
func (h *Handlers) apply(c *gin.Context, op func(id string) bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !op(id) {
		notFound(c, "window")
		return
	}
	h.respondWindow(c, id)
}

func (h *Handlers) respondWindow(c *gin.Context, id string) {
	w, ok := h.windows.Get(id)
	if !ok {
		notFound(c, "window")
		return
	}
	c.JSON(http.StatusOK, WindowView{
		WindowInstance: w,
		Frame:          window.FrameOf(w, h.windows.Layout()),
	})
}
