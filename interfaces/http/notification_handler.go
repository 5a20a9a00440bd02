package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestream-backend/usecase"
)

type INotificationHandler interface {
	ListMine(c *gin.Context)
	MarkAllRead(c *gin.Context)
}

type NotificationHandler struct {
	notificationUsecase usecase.INotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.INotificationUsecase) INotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase}
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	res, err := h.notificationUsecase.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationUsecase.MarkAllRead(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read"})
}
