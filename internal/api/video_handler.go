package api

import (
	"net/http"
	"os"

	"videoverse/internal/service"
	"videoverse/internal/storage"
	"videoverse/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoHandler exposes upload, catalog, trim and merge endpoints.
type VideoHandler struct {
	videoService     *service.VideoService
	transcodeService *service.TranscodeService
	store            *storage.Store
}

func NewVideoHandler(videoService *service.VideoService, transcodeService *service.TranscodeService, store *storage.Store) *VideoHandler {
	return &VideoHandler{
		videoService:     videoService,
		transcodeService: transcodeService,
		store:            store,
	}
}

// Upload accepts a multipart upload under the "video" field.
func (h *VideoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "video file is required"})
		return
	}

	result, err := h.videoService.Upload(c.Request.Context(), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videoService.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) Trim(c *gin.Context) {
	var req service.TrimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "videoId, trimType and duration are required"})
		return
	}

	result, err := h.transcodeService.Trim(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *VideoHandler) Merge(c *gin.Context) {
	var req service.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "ids must be an array of video ids"})
		return
	}

	result, err := h.transcodeService.Merge(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Watch streams a stored file by name; watchLink values returned by trim and
// merge point here.
func (h *VideoHandler) Watch(c *gin.Context) {
	filename := c.Param("filename")
	abs, err := h.store.Resolve(filename)
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := os.Stat(abs); err != nil {
		logger.L.Warn("watch target missing", zap.String("filename", filename))
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "video not found"})
		return
	}
	c.File(abs)
}
