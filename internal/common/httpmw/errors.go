package httpmw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
	"github.com/shifa-s11/board-task/internal/common/logger"
)

// RespondError renders err as {"error": message, "code": code} with the
// status carried by the AppError. Foreign errors become a logged 500.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.InternalError("request failed", err)
	}
	status := appErr.HTTPStatus
	message := appErr.Message
	if status >= http.StatusInternalServerError && appErr.Code != apperrors.ErrCodeStorageError {
		message = "request failed"
	}

	if status >= http.StatusInternalServerError {
		log.WithContext(c.Request.Context()).WithError(err).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status))
	}
	c.JSON(status, gin.H{"error": message, "code": appErr.Code})
}
