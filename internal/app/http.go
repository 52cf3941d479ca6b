package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/config"
	v1 "github.com/MarcMan710/PosTask/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	handler := v1.New(globalLogger, v1.Services{
		Auth:          globalAuthService,
		Sessions:      globalSessionService,
		Tasks:         globalTaskService,
		Tags:          globalTagService,
		Projects:      globalProjectService,
		Comments:      globalCommentService,
		Notifications: globalNotificationService,
		TimeEntries:   globalTimeEntryService,
		Analytics:     globalAnalyticsService,
		Gamification:  globalGamificationService,
		Activity:      globalActivityService,
	})
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.POST("/refresh", handler.HandleRefresh)
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)

	authorized := router.Group("", handler.HandleAuthMiddleware)

	taskRouter := authorized.Group("/tasks")
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("", handler.HandleGetTasks)
	taskRouter.PUT("/reorder", handler.HandleReorderTasks)
	taskRouter.GET("/:id", handler.HandleGetTask)
	taskRouter.PUT("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleDeleteTask)
	taskRouter.POST("/:id/tags/:tagId", handler.HandleAddTagToTask)
	taskRouter.DELETE("/:id/tags/:tagId", handler.HandleRemoveTagFromTask)
	taskRouter.GET("/:id/tags", handler.HandleGetTaskTags)
	taskRouter.POST("/:id/comments", handler.HandleCreateComment)
	taskRouter.GET("/:id/comments", handler.HandleGetTaskComments)
	taskRouter.POST("/:id/time-entries", handler.HandleStartTimer)
	taskRouter.GET("/:id/time-entries", handler.HandleGetTaskTimeEntries)

	tagRouter := authorized.Group("/tags")
	tagRouter.POST("", handler.HandleCreateTag)
	tagRouter.GET("", handler.HandleGetTags)
	tagRouter.PUT("/:id", handler.HandleUpdateTag)
	tagRouter.DELETE("/:id", handler.HandleDeleteTag)

	projectRouter := authorized.Group("/projects")
	projectRouter.POST("", handler.HandleCreateProject)
	projectRouter.GET("", handler.HandleGetProjects)
	projectRouter.GET("/:id", handler.HandleGetProject)
	projectRouter.PUT("/:id", handler.HandleUpdateProject)
	projectRouter.DELETE("/:id", handler.HandleDeleteProject)
	projectRouter.GET("/:id/tasks", handler.HandleGetProjectTasks)
	projectRouter.POST("/:id/members", handler.HandleAddProjectMember)
	projectRouter.DELETE("/:id/members/:userId", handler.HandleRemoveProjectMember)
	projectRouter.GET("/:id/members", handler.HandleGetProjectMembers)

	commentRouter := authorized.Group("/comments")
	commentRouter.PUT("/:id", handler.HandleUpdateComment)
	commentRouter.DELETE("/:id", handler.HandleDeleteComment)

	notificationRouter := authorized.Group("/notifications")
	notificationRouter.GET("", handler.HandleGetNotifications)
	notificationRouter.PUT("/:id/read", handler.HandleMarkNotificationRead)

	timeEntryRouter := authorized.Group("/time-entries")
	timeEntryRouter.PUT("/:id/stop", handler.HandleStopTimer)

	analyticsRouter := authorized.Group("/analytics")
	analyticsRouter.GET("/dashboard", handler.HandleGetDashboardStats)
	analyticsRouter.GET("/trend", handler.HandleGetProductivityTrend)

	gamificationRouter := authorized.Group("/gamification")
	gamificationRouter.GET("/progress", handler.HandleGetUserProgress)
	gamificationRouter.GET("/leaderboard", handler.HandleGetLeaderboard)

	authorized.GET("/activity", handler.HandleGetActivityLog)
}
