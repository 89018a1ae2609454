package http

import (
	"net/http"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// Dock returns the dock entries
func (h *Handlers) Dock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.shell.Dock()})
}

// ClickDock opens or focuses the clicked app
func (h *Handlers) ClickDock(c *gin.Context) {
	id, err := h.shell.ClickDock(types.AppKind(c.Param("app")))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondWindow(c, id)
}

// Desktop returns the wallpaper and icons
func (h *Handlers) Desktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.shell.Desktop())
}

// ContextMenu returns the desktop context menu
func (h *Handlers) ContextMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.shell.ContextMenu()})
}

// InvokeMenu runs a context menu action
func (h *Handlers) InvokeMenu(c *gin.Context) {
	out, err := h.shell.Invoke(c.Param("action"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// OpenIcon launches a desktop icon
func (h *Handlers) OpenIcon(c *gin.Context) {
	out, err := h.shell.OpenIcon(c.Param("label"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Shortcut runs a keyboard shortcut
func (h *Handlers) Shortcut(c *gin.Context) {
	var req types.ShortcutRequest
	if !bind(c, &req) {
		return
	}

	out, bound, err := h.shell.Shortcut(req.Keys)
	if !bound {
		c.JSON(http.StatusNotFound, gin.H{"error": "no action bound to " + req.Keys})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
