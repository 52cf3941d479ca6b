package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

type getNotificationResponse struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	ScheduledFor time.Time `json:"scheduled_for"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

func newGetNotificationResponse(n *models.Notification) getNotificationResponse {
	return getNotificationResponse{
		ID:           n.ID,
		TaskID:       n.TaskID,
		Type:         n.Type,
		Message:      n.Message,
		ScheduledFor: n.ScheduledFor,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetNotifications(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.ListByUser(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select notifications")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getNotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = newGetNotificationResponse(n)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleMarkNotificationRead(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	notificationID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	err := h.notifications.MarkRead(c, notificationID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", notificationID).
			Msg("failed to mark notification read")
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			abort(c, newNotFoundError(services.ErrNotificationNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusOK)
}
