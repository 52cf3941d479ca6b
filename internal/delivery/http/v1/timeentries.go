package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

type getTimeEntryResponse struct {
	ID              int64      `json:"id"`
	TaskID          int64      `json:"task_id"`
	Description     string     `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newGetTimeEntryResponse(entry *models.TimeEntry) getTimeEntryResponse {
	return getTimeEntryResponse{
		ID:              entry.ID,
		TaskID:          entry.TaskID,
		Description:     entry.Description,
		StartTime:       entry.StartTime,
		EndTime:         entry.EndTime,
		DurationSeconds: entry.DurationSeconds,
		CreatedAt:       entry.CreatedAt,
	}
}

type startTimerRequest struct {
	Description string `json:"description" binding:"omitempty,max=500"`
}

func (h *handlerImpl) HandleStartTimer(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req startTimerRequest
	if c.Request.ContentLength > 0 {
		err := c.ShouldBindJSON(&req)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to bind json")
			abort(c, newBadRequestError(errInvalidRequestBody.Error()))
			return
		}
	}

	entry, err := h.timeEntries.StartTimer(c, services.StartTimerParams{
		TaskID:      taskID,
		UserID:      userID,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to start timer")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrTimerAlreadyRunning):
			abort(c, newConflictError(services.ErrTimerAlreadyRunning.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", entry.ID).
		Msg("started timer")
	c.JSON(http.StatusCreated, newGetTimeEntryResponse(entry))
}

func (h *handlerImpl) HandleStopTimer(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	entryID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	entry, err := h.timeEntries.StopTimer(c, entryID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", entryID).
			Msg("failed to stop timer")
		switch {
		case errors.Is(err, services.ErrTimeEntryNotFound):
			abort(c, newNotFoundError(services.ErrTimeEntryNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", entry.ID).
		Int64("duration_seconds", entry.DurationSeconds).
		Msg("stopped timer")
	c.JSON(http.StatusOK, newGetTimeEntryResponse(entry))
}

func (h *handlerImpl) HandleGetTaskTimeEntries(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	entries, err := h.timeEntries.ListTaskEntries(c, taskID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select time entries")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTimeEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = newGetTimeEntryResponse(entry)
	}
	c.JSON(http.StatusOK, response)
}
