package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
)

type getActivityLogResponse struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Action     string          `json:"action"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newGetActivityLogResponse(log *models.ActivityLog) getActivityLogResponse {
	return getActivityLogResponse{
		ID:         log.ID,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Action:     log.Action,
		OldValues:  log.OldValues,
		NewValues:  log.NewValues,
		CreatedAt:  log.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetActivityLog(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			abort(c, newBadRequestError("limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	logs, err := h.activity.ListByUser(c, userID, limit)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select activity log")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getActivityLogResponse, len(logs))
	for i, log := range logs {
		response[i] = newGetActivityLogResponse(log)
	}
	c.JSON(http.StatusOK, response)
}
