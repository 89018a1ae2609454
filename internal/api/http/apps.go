package http

import (
	"net/http"

	"github.com/GriffinCanCode/webdesk/internal/apps/editor"
	"github.com/GriffinCanCode/webdesk/internal/apps/files"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/GriffinCanCode/webdesk/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// AppView returns the visible state of the app behind a window
func (h *Handlers) AppView(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.apps.View(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TerminalExec runs one command line
func (h *Handlers) TerminalExec(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.CommandRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateCommand(req.Line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	term, err := h.apps.Terminal(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := term.Execute(req.Line)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// withFiles resolves the Files session and answers with its view after fn
func (h *Handlers) withFiles(c *gin.Context, fn func(b *files.Browser) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.apps.Files(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := fn(b); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b.View())
}

// FilesNavigate enters a folder
func (h *Handlers) FilesNavigate(c *gin.Context) {
	var req types.NodeRefRequest
	if !bind(c, &req) {
		return
	}
	h.withFiles(c, func(b *files.Browser) error {
		return b.Navigate(req.ID)
	})
}

// FilesBack returns to the previous folder
func (h *Handlers) FilesBack(c *gin.Context) {
	h.withFiles(c, func(b *files.Browser) error {
		b.Back()
		return nil
	})
}

// FilesSelect highlights an item
func (h *Handlers) FilesSelect(c *gin.Context) {
	var req types.NodeRefRequest
	if !bind(c, &req) {
		return
	}
	h.withFiles(c, func(b *files.Browser) error {
		b.Select(req.ID)
		return nil
	})
}

// FilesOpen opens an item: folders navigate, files launch a viewer
func (h *Handlers) FilesOpen(c *gin.Context) {
	var req types.NodeRefRequest
	if !bind(c, &req) {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.apps.Files(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	launched, err := b.Open(req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":        b.View(),
		"instance_id": launched,
	})
}

// FilesCreate adds a folder or file in the current folder
func (h *Handlers) FilesCreate(c *gin.Context) {
	var req types.NewItemRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.withFiles(c, func(b *files.Browser) error {
		var err error
		if req.Type == types.NodeFolder {
			_, err = b.CreateFolder(req.Name)
		} else {
			_, err = b.CreateFile(req.Name)
		}
		return err
	})
}

// FilesDelete removes the selected item
func (h *Handlers) FilesDelete(c *gin.Context) {
	h.withFiles(c, func(b *files.Browser) error {
		return b.DeleteSelected()
	})
}

// withEditor resolves the editor session and answers with its view after fn
func (h *Handlers) withEditor(c *gin.Context, fn func(e *editor.Editor) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.apps.Editor(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := fn(e); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e.View())
}

// EditorOpen opens a file in a tab
func (h *Handlers) EditorOpen(c *gin.Context) {
	var req types.NodeRefRequest
	if !bind(c, &req) {
		return
	}
	h.withEditor(c, func(e *editor.Editor) error {
		return e.Open(req.ID)
	})
}

// EditorEdit replaces the buffer of the active tab
func (h *Handlers) EditorEdit(c *gin.Context) {
	var req types.UpdateContentRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateContent(req.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.withEditor(c, func(e *editor.Editor) error {
		return e.Edit(req.Content)
	})
}

// EditorSave writes the active buffer back to the file system
func (h *Handlers) EditorSave(c *gin.Context) {
	h.withEditor(c, func(e *editor.Editor) error {
		return e.Save()
	})
}

// EditorClose closes a tab
func (h *Handlers) EditorClose(c *gin.Context) {
	var req types.NodeRefRequest
	if !bind(c, &req) {
		return
	}
	h.withEditor(c, func(e *editor.Editor) error {
		e.CloseTab(req.ID)
		return nil
	})
}

// ChatSend starts an assistant reply. The reply streams in over /stream.
func (h *Handlers) ChatSend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.ChatRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateMessage(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.apps.Chat(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := session.Send(req.Message); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, session.View())
}
