package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestream-backend/domain/model"
	"livestream-backend/infrastructure/logger"
)

var kindStatus = map[model.ErrorKind]int{
	model.KindValidation:        http.StatusBadRequest,
	model.KindAuthentication:    http.StatusUnauthorized,
	model.KindForbidden:         http.StatusForbidden,
	model.KindSelfFollow:        http.StatusForbidden,
	model.KindNotFound:          http.StatusNotFound,
	model.KindNotReady:          http.StatusBadRequest,
	model.KindInvalidTransition: http.StatusConflict,
	model.KindConsistency:       http.StatusInternalServerError,
	model.KindStorage:           http.StatusInternalServerError,
	model.KindInternal:          http.StatusInternalServerError,
}

// respondError maps the error kind to an HTTP status and emits the stable
// kind plus a human-readable message. Internal causes never reach clients.
func respondError(c *gin.Context, err error) {
	kind := model.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		logger.GetLogger().WithField("error", err).Error("Request failed")
	}
	message := err.Error()
	if kind == model.KindInternal {
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": string(kind), "message": message})
}

// currentUserID reads the authenticated subject set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
