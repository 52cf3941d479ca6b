package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type getDashboardStatsResponse struct {
	TotalTasks         int `json:"total_tasks"`
	PendingTasks       int `json:"pending_tasks"`
	InProgressTasks    int `json:"in_progress_tasks"`
	CompletedTasks     int `json:"completed_tasks"`
	CancelledTasks     int `json:"cancelled_tasks"`
	OverdueTasks       int `json:"overdue_tasks"`
	CompletedLast7Days int `json:"completed_last_7_days"`
}

func (h *handlerImpl) HandleGetDashboardStats(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	stats, err := h.analytics.DashboardStats(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute dashboard stats")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, getDashboardStatsResponse{
		TotalTasks:         stats.TotalTasks,
		PendingTasks:       stats.PendingTasks,
		InProgressTasks:    stats.InProgressTasks,
		CompletedTasks:     stats.CompletedTasks,
		CancelledTasks:     stats.CancelledTasks,
		OverdueTasks:       stats.OverdueTasks,
		CompletedLast7Days: stats.CompletedLast7Days,
	})
}

type dailyCompletionResponse struct {
	Day       time.Time `json:"day"`
	Completed int       `json:"completed"`
}

func (h *handlerImpl) HandleGetProductivityTrend(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			abort(c, newBadRequestError("days must be between 1 and 365"))
			return
		}
		days = parsed
	}

	trend, err := h.analytics.ProductivityTrend(c, userID, days)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute productivity trend")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]dailyCompletionResponse, len(trend))
	for i, day := range trend {
		response[i] = dailyCompletionResponse{
			Day:       day.Day,
			Completed: day.Completed,
		}
	}
	c.JSON(http.StatusOK, response)
}
