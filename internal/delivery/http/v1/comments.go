package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

type getCommentResponse struct {
	ID              int64                `json:"id"`
	TaskID          int64                `json:"task_id"`
	UserID          string               `json:"user_id"`
	ParentCommentID *int64               `json:"parent_comment_id,omitempty"`
	Content         string               `json:"content"`
	AuthorEmail     string               `json:"author_email,omitempty"`
	Replies         []getCommentResponse `json:"replies"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func newGetCommentResponse(comment *models.Comment) getCommentResponse {
	replies := make([]getCommentResponse, len(comment.Replies))
	for i, reply := range comment.Replies {
		replies[i] = newGetCommentResponse(reply)
	}
	return getCommentResponse{
		ID:              comment.ID,
		TaskID:          comment.TaskID,
		UserID:          comment.UserID,
		ParentCommentID: comment.ParentCommentID,
		Content:         comment.Content,
		AuthorEmail:     comment.AuthorEmail,
		Replies:         replies,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
}

type createCommentRequest struct {
	Content         string `json:"content" binding:"required,max=2000"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

func (h *handlerImpl) HandleCreateComment(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req createCommentRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	comment, err := h.comments.CreateComment(c, services.CommentParams{
		TaskID:          taskID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to create comment")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrCommentNotFound):
			abort(c, newBadRequestError(services.ErrCommentNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.logger.Info().
		Int64("id", comment.ID).
		Msg("created comment")
	c.JSON(http.StatusCreated, newGetCommentResponse(comment))
}

func (h *handlerImpl) HandleGetTaskComments(c *gin.Context) {
	taskID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ListTaskComments(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select comments")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getCommentResponse, len(comments))
	for i, comment := range comments {
		response[i] = newGetCommentResponse(comment)
	}
	c.JSON(http.StatusOK, response)
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func (h *handlerImpl) HandleUpdateComment(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	commentID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req updateCommentRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	comment, err := h.comments.UpdateComment(c, commentID, userID, req.Content)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", commentID).
			Msg("failed to update comment")
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			abort(c, newNotFoundError(services.ErrCommentNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newGetCommentResponse(comment))
}

func (h *handlerImpl) HandleDeleteComment(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	commentID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	err := h.comments.DeleteComment(c, commentID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", commentID).
			Msg("failed to delete comment")
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			abort(c, newNotFoundError(services.ErrCommentNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
