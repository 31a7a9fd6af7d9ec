package api

import (
	"net/http"

	"videoverse/internal/service"
	"videoverse/internal/storage"

	"github.com/gin-gonic/gin"
)

// ShareHandler exposes share-link generation and anonymous access.
type ShareHandler struct {
	shareService *service.ShareService
	store        *storage.Store
}

func NewShareHandler(shareService *service.ShareService, store *storage.Store) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		store:        store,
	}
}

func (h *ShareHandler) Generate(c *gin.Context) {
	var req service.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "id and expiresIn are required"})
		return
	}

	result, err := h.shareService.Generate(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Access resolves a token and serves the video bytes. No authentication:
// possession of an unexpired token is the capability.
func (h *ShareHandler) Access(c *gin.Context) {
	video, err := h.shareService.Resolve(c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	abs, err := h.store.Resolve(video.FilePath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.File(abs)
}
