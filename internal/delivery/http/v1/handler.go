package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleReorderTasks(c *gin.Context)

	HandleCreateTag(c *gin.Context)
	HandleGetTags(c *gin.Context)
	HandleUpdateTag(c *gin.Context)
	HandleDeleteTag(c *gin.Context)
	HandleAddTagToTask(c *gin.Context)
	HandleRemoveTagFromTask(c *gin.Context)
	HandleGetTaskTags(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleGetProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)
	HandleGetProjectTasks(c *gin.Context)
	HandleAddProjectMember(c *gin.Context)
	HandleRemoveProjectMember(c *gin.Context)
	HandleGetProjectMembers(c *gin.Context)

	HandleCreateComment(c *gin.Context)
	HandleGetTaskComments(c *gin.Context)
	HandleUpdateComment(c *gin.Context)
	HandleDeleteComment(c *gin.Context)

	HandleGetNotifications(c *gin.Context)
	HandleMarkNotificationRead(c *gin.Context)

	HandleStartTimer(c *gin.Context)
	HandleStopTimer(c *gin.Context)
	HandleGetTaskTimeEntries(c *gin.Context)

	HandleGetDashboardStats(c *gin.Context)
	HandleGetProductivityTrend(c *gin.Context)

	HandleGetUserProgress(c *gin.Context)
	HandleGetLeaderboard(c *gin.Context)

	HandleGetActivityLog(c *gin.Context)
}

type handlerImpl struct {
	logger        zerolog.Logger
	auth          services.AuthService
	sessions      services.SessionService
	tasks         services.TaskService
	tags          services.TagService
	projects      services.ProjectService
	comments      services.CommentService
	notifications services.NotificationService
	timeEntries   services.TimeEntryService
	analytics     services.AnalyticsService
	gamification  services.GamificationService
	activity      services.ActivityService
}

type Services struct {
	Auth          services.AuthService
	Sessions      services.SessionService
	Tasks         services.TaskService
	Tags          services.TagService
	Projects      services.ProjectService
	Comments      services.CommentService
	Notifications services.NotificationService
	TimeEntries   services.TimeEntryService
	Analytics     services.AnalyticsService
	Gamification  services.GamificationService
	Activity      services.ActivityService
}

func New(logger zerolog.Logger, s Services) Handler {
	return &handlerImpl{
		logger:        logger,
		auth:          s.Auth,
		sessions:      s.Sessions,
		tasks:         s.Tasks,
		tags:          s.Tags,
		projects:      s.Projects,
		comments:      s.Comments,
		notifications: s.Notifications,
		timeEntries:   s.TimeEntries,
		analytics:     s.Analytics,
		gamification:  s.Gamification,
		activity:      s.Activity,
	}
}
