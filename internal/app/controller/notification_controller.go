package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
)

// NotificationController serves the caller's inbox of status changes
type NotificationController struct {
	service service.NotificationService
}

func NewNotificationController(service service.NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

// GetNotifications lists the caller's notifications, newest first
// GET /api/notifications?page&pageSize&isRead
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	var isRead *bool
	if raw := c.Query("isRead"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "isRead must be true or false")
			return
		}
		isRead = &b
	}

	result, err := ctrl.service.GetNotifications(userID, isRead, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "list notifications")
		return
	}
	apperrors.Success(c, result)
}

// MarkAsRead marks one notification as read
// PUT /api/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.MarkAsRead(id, userID); err != nil {
		respondServiceError(c, err, "update notification")
		return
	}
	apperrors.SuccessMessage(c, "notification marked as read", nil)
}

// MarkAllAsRead
// PUT /api/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctrl.service.MarkAllAsRead(userID); err != nil {
		respondServiceError(c, err, "update notifications")
		return
	}
	apperrors.SuccessMessage(c, "all notifications marked as read", nil)
}
