package api

import (
	"errors"
	"net/http"

	apperr "videoverse/pkg/errors"
	"videoverse/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps an error's category onto an HTTP status and emits the
// structured error body. Uncategorized errors become plain 500s.
func writeError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		logger.L.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "internal server error",
		})
		return
	}

	var status int
	switch appErr.Code {
	case apperr.CodeValidation, apperr.CodeInvalidPath:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		logger.L.Error("request failed", zap.String("code", string(appErr.Code)), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   string(appErr.Code),
		"message": appErr.Message,
	})
}
