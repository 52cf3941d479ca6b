package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/recurrence"
	"github.com/MarcMan710/PosTask/internal/services"
)

type getTagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func newGetTagResponse(tag *models.Tag) getTagResponse {
	return getTagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

type getTaskResponse struct {
	ID                 int64            `json:"id"`
	ProjectID          *int64           `json:"project_id,omitempty"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Status             string           `json:"status"`
	Priority           string           `json:"priority"`
	Position           int              `json:"position"`
	DueDate            *time.Time       `json:"due_date,omitempty"`
	IsRecurring        bool             `json:"is_recurring"`
	RecurrencePattern  *string          `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval *int             `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate  *time.Time       `json:"recurrence_end_date,omitempty"`
	ParentTaskID       *int64           `json:"parent_task_id,omitempty"`
	Tags               []getTagResponse `json:"tags"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	tags := make([]getTagResponse, len(task.Tags))
	for i := range task.Tags {
		tags[i] = newGetTagResponse(&task.Tags[i])
	}
	return getTaskResponse{
		ID:                 task.ID,
		ProjectID:          task.ProjectID,
		Title:              task.Title,
		Description:        task.Description,
		Status:             task.Status,
		Priority:           task.Priority,
		Position:           task.Position,
		DueDate:            task.DueDate,
		IsRecurring:        task.IsRecurring,
		RecurrencePattern:  task.RecurrencePattern,
		RecurrenceInterval: task.RecurrenceInterval,
		RecurrenceEndDate:  task.RecurrenceEndDate,
		ParentTaskID:       task.ParentTaskID,
		Tags:               tags,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

func newGetTasksResponse(tasks []*models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	return response
}

type taskRequest struct {
	Title              string     `json:"title" binding:"required,max=255"`
	Description        *string    `json:"description,omitempty"`
	Status             *string    `json:"status,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	ProjectID          *int64     `json:"project_id,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	TagIDs             []int64    `json:"tag_ids,omitempty"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrencePattern  *string    `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval *int       `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date,omitempty"`
}

func (r *taskRequest) toParams(userID string) services.TaskParams {
	params := services.TaskParams{
		UserID:             userID,
		ProjectID:          r.ProjectID,
		Title:              r.Title,
		DueDate:            r.DueDate,
		TagIDs:             r.TagIDs,
		IsRecurring:        r.IsRecurring,
		RecurrencePattern:  r.RecurrencePattern,
		RecurrenceInterval: r.RecurrenceInterval,
		RecurrenceEndDate:  r.RecurrenceEndDate,
	}
	if r.Description != nil {
		params.Description = *r.Description
	}
	if r.Status != nil {
		params.Status = *r.Status
	}
	if r.Priority != nil {
		params.Priority = *r.Priority
	}
	return params
}

func abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrMissingTitle),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrMissingRecurrence),
		errors.Is(err, services.ErrDuplicatePositions),
		errors.Is(err, recurrence.ErrInvalidPattern):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, req.toParams(userID))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abortTaskError(c, err)
		return
	}

	h.logger.Info().
		Int64("id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func taskFiltersFromQuery(c *gin.Context) services.TaskFilters {
	filters := services.TaskFilters{
		Keyword:  c.Query("q"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}

	if raw := c.Query("project_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ProjectID = &id
		}
	}
	if raw := c.Query("is_recurring"); raw != "" {
		if recurring, err := strconv.ParseBool(raw); err == nil {
			filters.IsRecurring = &recurring
		}
	}
	for _, raw := range c.QueryArray("tag_id") {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.TagIDs = append(filters.TagIDs, id)
		}
	}
	return filters
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID, taskFiltersFromQuery(c))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, userID, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to select task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, taskID, req.toParams(userID))
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to update task")
		abortTaskError(c, err)
		return
	}

	h.logger.Info().
		Int64("id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to delete task")
		abortTaskError(c, err)
		return
	}

	h.logger.Info().
		Int64("id", taskID).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}

type reorderTasksRequest struct {
	Positions []struct {
		ID       int64 `json:"id" binding:"required"`
		Position int   `json:"position"`
	} `json:"positions" binding:"required,min=1"`
}

func (h *handlerImpl) HandleReorderTasks(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req reorderTasksRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	positions := make([]services.TaskPosition, len(req.Positions))
	for i, p := range req.Positions {
		positions[i] = services.TaskPosition{ID: p.ID, Position: p.Position}
	}

	err = h.tasks.ReorderTasks(c, userID, positions)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to reorder tasks")
		abortTaskError(c, err)
		return
	}

	h.logger.Info().
		Int("count", len(positions)).
		Msg("reordered tasks")
	c.Status(http.StatusOK)
}
