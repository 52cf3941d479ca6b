package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

type getProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type projectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Color       string `json:"color" binding:"omitempty,max=7"`
}

func abortProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req projectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, services.ProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int64("id", project.ID).
		Msg("created project")
	c.JSON(http.StatusCreated, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select projects")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = newGetProjectResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProjectByID(c, projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to select project")
		abortProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.UpdateProject(c, projectID, services.ProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to update project")
		abortProjectError(c, err)
		return
	}

	h.logger.Info().
		Int64("id", project.ID).
		Msg("updated project")
	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	err := h.projects.DeleteProject(c, projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to delete project")
		abortProjectError(c, err)
		return
	}

	h.logger.Info().
		Int64("id", projectID).
		Msg("deleted project")
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetProjectTasks(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	tasks, err := h.projects.ListProjectTasks(c, projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to select project tasks")
		abortProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

type addProjectMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=owner member viewer"`
}

type getProjectMemberResponse struct {
	UserID  string    `json:"user_id"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

func (h *handlerImpl) HandleAddProjectMember(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	var req addProjectMemberRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	err = h.projects.AddMember(c, projectID, req.UserID, role)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to add project member")
		abortProjectError(c, err)
		return
	}

	h.logger.Info().
		Int64("project_id", projectID).
		Str("user_id", req.UserID).
		Msg("added project member")
	c.Status(http.StatusCreated)
}

func (h *handlerImpl) HandleRemoveProjectMember(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	userID := c.Param("userId")
	if userID == "" {
		abort(c, newBadRequestError(errInvalidPathParameter.Error()))
		return
	}

	err := h.projects.RemoveMember(c, projectID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Str("user_id", userID).
			Msg("failed to remove project member")
		abortProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetProjectMembers(c *gin.Context) {
	projectID, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	members, err := h.projects.ListMembers(c, projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", projectID).
			Msg("failed to select project members")
		abortProjectError(c, err)
		return
	}

	response := make([]getProjectMemberResponse, len(members))
	for i, member := range members {
		response[i] = getProjectMemberResponse{
			UserID:  member.UserID,
			Role:    member.Role,
			AddedAt: member.AddedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
