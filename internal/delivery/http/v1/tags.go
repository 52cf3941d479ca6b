package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

type tagRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,max=7"`
}

func newGetTagsResponse(tags []*models.Tag) []getTagResponse {
	response := make([]getTagResponse, len(tags))
	for i, tag := range tags {
		response[i] = newGetTagResponse(tag)
	}
	return response
}

func (h *handlerImpl) HandleCreateTag(c *gin.Context) {
	var req tagRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	tag, err := h.tags.CreateTag(c, req.Name, req.Color)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create tag")
		switch {
		case errors.Is(err, services.ErrTagAlreadyExists):
			abort(c, newConflictError(services.ErrTagAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", tag.ID).
		Msg("created tag")
	c.JSON(http.StatusCreated, newGetTagResponse(tag))
}

func (h *handlerImpl) HandleGetTags(c *gin.Context) {
	tags, err := h.tags.ListTags(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select tags")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newGetTagsResponse(tags))
}

func (h *handlerImpl) HandleUpdateTag(c *gin.Context) {
	tagID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req tagRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	tag, err := h.tags.UpdateTag(c, tagID, req.Name, req.Color)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", tagID).
			Msg("failed to update tag")
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			abort(c, newNotFoundError(services.ErrTagNotFound.Error()))
		case errors.Is(err, services.ErrTagAlreadyExists):
			abort(c, newConflictError(services.ErrTagAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", tag.ID).
		Msg("updated tag")
	c.JSON(http.StatusOK, newGetTagResponse(tag))
}

func (h *handlerImpl) HandleDeleteTag(c *gin.Context) {
	tagID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	err := h.tags.DeleteTag(c, tagID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", tagID).
			Msg("failed to delete tag")
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			abort(c, newNotFoundError(services.ErrTagNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", tagID).
		Msg("deleted tag")
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleAddTagToTask(c *gin.Context) {
	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.int64Param(c, "tagId")
	if !ok {
		return
	}

	err := h.tags.AddTagToTask(c, taskID, tagID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Int64("tag_id", tagID).
			Msg("failed to add tag to task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrTagNotFound):
			abort(c, newNotFoundError(services.ErrTagNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusCreated)
}

func (h *handlerImpl) HandleRemoveTagFromTask(c *gin.Context) {
	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.int64Param(c, "tagId")
	if !ok {
		return
	}

	err := h.tags.RemoveTagFromTask(c, taskID, tagID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Int64("tag_id", tagID).
			Msg("failed to remove tag from task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetTaskTags(c *gin.Context) {
	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	tags, err := h.tags.ListTaskTags(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task tags")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newGetTagsResponse(tags))
}
