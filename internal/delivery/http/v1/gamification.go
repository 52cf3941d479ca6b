package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarcMan710/PosTask/internal/models"
)

type achievementResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Requirement int    `json:"requirement"`
	Points      int    `json:"points"`
}

type achievementProgressResponse struct {
	Achievement achievementResponse `json:"achievement"`
	Progress    int                 `json:"progress"`
	Completed   bool                `json:"completed"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

type getUserProgressResponse struct {
	TotalPoints           int                           `json:"total_points"`
	CompletedAchievements int                           `json:"completed_achievements"`
	CurrentStreak         int                           `json:"current_streak"`
	LongestStreak         int                           `json:"longest_streak"`
	Achievements          []achievementProgressResponse `json:"achievements"`
}

func (h *handlerImpl) HandleGetUserProgress(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	report, err := h.gamification.UserProgress(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to fetch user progress")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := getUserProgressResponse{
		TotalPoints:           report.TotalPoints,
		CompletedAchievements: report.CompletedAchievements,
		CurrentStreak:         report.CurrentStreak,
		LongestStreak:         report.LongestStreak,
		Achievements:          make([]achievementProgressResponse, 0, len(report.Progress)),
	}
	for _, progress := range report.Progress {
		entry := achievementProgressResponse{
			Progress:    progress.Progress,
			Completed:   progress.Completed,
			CompletedAt: progress.CompletedAt,
		}
		if progress.Achievement != nil {
			entry.Achievement = achievementResponse{
				ID:          progress.Achievement.ID,
				Name:        progress.Achievement.Name,
				Description: progress.Achievement.Description,
				Type:        progress.Achievement.Type,
				Requirement: progress.Achievement.Requirement,
				Points:      progress.Achievement.Points,
			}
		}
		response.Achievements = append(response.Achievements, entry)
	}
	c.JSON(http.StatusOK, response)
}

type leaderboardEntryResponse struct {
	UserID                string `json:"user_id"`
	Email                 string `json:"email"`
	TotalPoints           int    `json:"total_points"`
	AchievementsCompleted int    `json:"achievements_completed"`
}

func newLeaderboardResponse(entries []*models.LeaderboardEntry) []leaderboardEntryResponse {
	response := make([]leaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = leaderboardEntryResponse{
			UserID:                entry.UserID,
			Email:                 entry.Email,
			TotalPoints:           entry.TotalPoints,
			AchievementsCompleted: entry.AchievementsCompleted,
		}
	}
	return response
}

func (h *handlerImpl) HandleGetLeaderboard(c *gin.Context) {
	entries, err := h.gamification.Leaderboard(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to fetch leaderboard")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newLeaderboardResponse(entries))
}
