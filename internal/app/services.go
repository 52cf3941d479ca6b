package app

import (
	"context"

	"github.com/MarcMan710/PosTask/internal/config"
	"github.com/MarcMan710/PosTask/internal/events"
	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/services"
)

const eventBufferSize = 256

var (
	globalBus *events.Bus

	globalAuthService         services.AuthService
	globalSessionService      services.SessionService
	globalTaskService         services.TaskService
	globalTagService          services.TagService
	globalProjectService      services.ProjectService
	globalCommentService      services.CommentService
	globalNotificationService services.NotificationService
	globalTimeEntryService    services.TimeEntryService
	globalAnalyticsService    services.AnalyticsService
	globalGamificationService services.GamificationService
	globalActivityService     services.ActivityService

	stopEventConsumer context.CancelFunc
)

func InitServices() {
	jwtCfg := config.Global().JWT

	globalBus = events.NewBus(globalLogger, eventBufferSize)

	globalAuthService = services.NewAuthService(globalLogger, globalPostgresPool,
		jwtCfg.Issuer, []byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL, jwtCfg.RefreshTokenTTL)
	globalSessionService = services.NewSessionService(globalLogger, globalPostgresPool)
	globalTaskService = services.NewTaskService(globalLogger, globalPostgresPool, globalBus)
	globalTagService = services.NewTagService(globalLogger, globalPostgresPool)
	globalProjectService = services.NewProjectService(globalLogger, globalPostgresPool)
	globalCommentService = services.NewCommentService(globalLogger, globalPostgresPool)
	globalNotificationService = services.NewNotificationService(globalLogger, globalPostgresPool, globalMailer)
	globalTimeEntryService = services.NewTimeEntryService(globalLogger, globalPostgresPool)
	globalAnalyticsService = services.NewAnalyticsService(globalLogger, globalPostgresPool)
	globalGamificationService = services.NewGamificationService(globalLogger, globalPostgresPool)
	globalActivityService = services.NewActivityService(globalLogger, globalPostgresPool)

	globalLogger.Info().Msg("initialized services")
}

// StartEventConsumer fans task events out to the reminder scheduler,
// the gamification engine and the activity log. All three are
// best-effort: a failure is logged and the event is not retried.
func StartEventConsumer() {
	ctx, cancel := context.WithCancel(context.Background())
	stopEventConsumer = cancel

	go globalBus.Run(ctx, handleTaskEvent)
	globalLogger.Info().Msg("started event consumer")
}

func StopEventConsumer() {
	stopEventConsumer()
	globalLogger.Info().Msg("stopped event consumer")
}

func handleTaskEvent(ctx context.Context, event events.TaskUpserted) {
	task := event.Task

	err := globalNotificationService.ScheduleReminder(ctx, &task)
	if err != nil {
		globalLogger.Warn().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to schedule reminder")
	}

	if task.Status == models.StatusCompleted &&
		event.PreviousStatus != models.StatusCompleted {
		err = globalGamificationService.OnTaskCompleted(ctx, task.UserID, task.UpdatedAt)
		if err != nil {
			globalLogger.Warn().
				Err(err).
				Str("user_id", task.UserID).
				Msg("failed to advance gamification progress")
		}
	}

	switch event.Action {
	case events.ActionCreated:
		globalActivityService.RecordTaskActivity(ctx, task.UserID, task.ID,
			event.Action, nil, &task)
	case events.ActionUpdated:
		globalActivityService.RecordTaskActivity(ctx, task.UserID, task.ID,
			event.Action, map[string]string{"status": event.PreviousStatus}, &task)
	}
}
