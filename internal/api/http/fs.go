package http

import (
	"net/http"

	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/GriffinCanCode/webdesk/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// NodeView is a node with its absolute path
type NodeView struct {
	types.Node
	Path string `json:"path"`
}

// GetNode returns one node
func (h *Handlers) GetNode(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondNode(c, http.StatusOK, id)
}

// GetChildren lists a folder in insertion order. Unknown ids have no
// children.
func (h *Handlers) GetChildren(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	children := h.fs.GetChildren(id)
	if children == nil {
		children = []types.Node{}
	}
	c.JSON(http.StatusOK, gin.H{"children": children})
}

// CreateNode adds a file or folder
func (h *Handlers) CreateNode(c *gin.Context) {
	var req types.CreateNodeRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateID(req.ParentID, "parentId", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var content string
	if req.Content != nil {
		content = *req.Content
	}
	if err := utils.ValidateContent(content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := h.fs.CreateNode(req.Name, req.Type, req.ParentID, content)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondNode(c, http.StatusCreated, node.ID)
}

// DeleteNode removes a node and its subtree. Deleting a node that is
// already gone reports deleted false.
func (h *Handlers) DeleteNode(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id == h.fs.Snapshot().RootID() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the root folder cannot be deleted"})
		return
	}
	deleted := h.fs.DeleteNode(id)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "id": id})
}

// UpdateContent overwrites a file. Missing nodes and folders are left
// alone and reported with updated false.
func (h *Handlers) UpdateContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.UpdateContentRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateContent(req.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.fs.UpdateContent(id, req.Content) {
		c.JSON(http.StatusOK, gin.H{"updated": false, "id": id})
		return
	}
	h.respondNode(c, http.StatusOK, id)
}

// ResolvePath evaluates ?path= relative to ?from= (the root by default)
func (h *Handlers) ResolvePath(c *gin.Context) {
	from := c.DefaultQuery("from", h.fs.Snapshot().RootID())
	if err := utils.ValidateID(from, "from", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.fs.ResolvePath(from, c.Query("path"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondNode(c, http.StatusOK, id)
}

func (h *Handlers) respondNode(c *gin.Context, status int, id string) {
	node, ok := h.fs.GetNode(id)
	if !ok {
		notFound(c, "node")
		return
	}
	path, _ := h.fs.PathString(id)
	c.JSON(status, NodeView{Node: node, Path: path})
}
