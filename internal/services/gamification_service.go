package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type gamificationServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewGamificationService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) GamificationService {
	return &gamificationServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// advanceStreak applies one completion on day "today" to a daily streak.
// Same-day completions keep the streak, a one-day gap extends it and a
// longer gap resets it to 1.
func advanceStreak(current, longest int, last *time.Time, today time.Time) (int, int) {
	switch {
	case last == nil:
		current = 1
	default:
		lastDay := last.Truncate(24 * time.Hour)
		day := today.Truncate(24 * time.Hour)
		gap := int(day.Sub(lastDay).Hours() / 24)
		switch {
		case gap == 0:
			// Already counted today.
		case gap == 1:
			current++
		default:
			current = 1
		}
	}

	if current > longest {
		longest = current
	}
	return current, longest
}

func (s *gamificationServiceImpl) OnTaskCompleted(ctx context.Context, userID string, completedAt time.Time) error {
	const selectAchievementsQuery = `
SELECT id, name, description, type, requirement, points, is_active
FROM achievements
WHERE is_active = true AND type = ANY($1)
`
	rows, err := s.pgPool.Query(ctx, selectAchievementsQuery,
		[]string{models.AchievementTaskCompletion, models.AchievementStreak})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select achievements")
		return err
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		a := new(models.Achievement)
		err = rows.Scan(&a.ID, &a.Name, &a.Description, &a.Type, &a.Requirement, &a.Points, &a.IsActive)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan achievement")
			return err
		}
		achievements = append(achievements, a)
	}
	err = rows.Err()
	if err != nil {
		return err
	}

	for _, achievement := range achievements {
		err = s.applyCompletion(ctx, userID, achievement, completedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *gamificationServiceImpl) applyCompletion(ctx context.Context, userID string, achievement *models.Achievement, completedAt time.Time) error {
	progress, err := s.findOrCreateProgress(ctx, userID, achievement.ID)
	if err != nil {
		return err
	}

	switch achievement.Type {
	case models.AchievementTaskCompletion:
		progress.Progress++
	case models.AchievementStreak:
		before := progress.CurrentStreak
		progress.CurrentStreak, progress.LongestStreak = advanceStreak(
			progress.CurrentStreak, progress.LongestStreak,
			progress.LastCompletedDate, completedAt,
		)
		if progress.CurrentStreak != before || progress.LastCompletedDate == nil {
			progress.Progress = progress.CurrentStreak
		}
		progress.LastCompletedDate = &completedAt
	}

	if progress.Progress >= achievement.Requirement && !progress.Completed {
		progress.Completed = true
		progress.CompletedAt = &completedAt
		progress.TotalPoints += achievement.Points
		s.logger.Info().
			Str("user_id", userID).
			Str("achievement", achievement.Name).
			Int("points", achievement.Points).
			Msg("achievement unlocked")
	}

	const updateProgressQuery = `
UPDATE user_progress
SET progress = $1,
    completed = $2,
    completed_at = $3,
    total_points = $4,
    current_streak = $5,
    longest_streak = $6,
    last_completed_date = $7
WHERE id = $8
`
	_, err = s.pgPool.Exec(
		ctx,
		updateProgressQuery,
		progress.Progress,
		progress.Completed,
		progress.CompletedAt,
		progress.TotalPoints,
		progress.CurrentStreak,
		progress.LongestStreak,
		progress.LastCompletedDate,
		progress.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("progress_id", progress.ID).
			Msg("failed to update progress")
		return err
	}
	return nil
}

func (s *gamificationServiceImpl) findOrCreateProgress(ctx context.Context, userID string, achievementID int64) (*models.UserProgress, error) {
	const selectProgressQuery = `
SELECT id, user_id, achievement_id, progress, completed, completed_at,
       total_points, current_streak, longest_streak, last_completed_date
FROM user_progress
WHERE user_id = $1 AND achievement_id = $2
`
	p := new(models.UserProgress)
	err := s.pgPool.QueryRow(ctx, selectProgressQuery, userID, achievementID).Scan(
		&p.ID,
		&p.UserID,
		&p.AchievementID,
		&p.Progress,
		&p.Completed,
		&p.CompletedAt,
		&p.TotalPoints,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastCompletedDate,
	)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select progress")
		return nil, err
	}

	p = &models.UserProgress{
		UserID:        userID,
		AchievementID: achievementID,
	}

	const insertProgressQuery = `
INSERT INTO user_progress (user_id, achievement_id, progress, completed, total_points,
                           current_streak, longest_streak)
VALUES ($1, $2, 0, false, 0, 0, 0)
RETURNING id
`
	err = s.pgPool.QueryRow(ctx, insertProgressQuery, userID, achievementID).Scan(&p.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to insert progress")
		return nil, err
	}
	return p, nil
}

func (s *gamificationServiceImpl) UserProgress(ctx context.Context, userID string) (*ProgressReport, error) {
	const selectUserProgressQuery = `
SELECT p.id, p.user_id, p.achievement_id, p.progress, p.completed, p.completed_at,
       p.total_points, p.current_streak, p.longest_streak, p.last_completed_date,
       a.id, a.name, a.description, a.type, a.requirement, a.points, a.is_active
FROM user_progress p
JOIN achievements a ON a.id = p.achievement_id
WHERE p.user_id = $1
ORDER BY p.completed_at DESC NULLS LAST
`
	rows, err := s.pgPool.Query(ctx, selectUserProgressQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user progress")
		return nil, err
	}
	defer rows.Close()

	report := new(ProgressReport)
	for rows.Next() {
		p := new(models.UserProgress)
		a := new(models.Achievement)
		err = rows.Scan(
			&p.ID,
			&p.UserID,
			&p.AchievementID,
			&p.Progress,
			&p.Completed,
			&p.CompletedAt,
			&p.TotalPoints,
			&p.CurrentStreak,
			&p.LongestStreak,
			&p.LastCompletedDate,
			&a.ID,
			&a.Name,
			&a.Description,
			&a.Type,
			&a.Requirement,
			&a.Points,
			&a.IsActive,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user progress")
			return nil, err
		}
		p.Achievement = a

		report.Progress = append(report.Progress, p)
		report.TotalPoints += p.TotalPoints
		if p.Completed {
			report.CompletedAchievements++
		}
		if a.Type == models.AchievementStreak {
			report.CurrentStreak = p.CurrentStreak
			report.LongestStreak = p.LongestStreak
		}
	}
	return report, rows.Err()
}

func (s *gamificationServiceImpl) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	const leaderboardQuery = `
SELECT p.user_id,
       u.email,
       SUM(p.total_points) AS total_points,
       COUNT(*) FILTER (WHERE p.completed) AS achievements_completed
FROM user_progress p
JOIN users u ON u.id = p.user_id
GROUP BY p.user_id, u.email
ORDER BY total_points DESC
LIMIT 10
`
	rows, err := s.pgPool.Query(ctx, leaderboardQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select leaderboard")
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		e := new(models.LeaderboardEntry)
		err = rows.Scan(&e.UserID, &e.Email, &e.TotalPoints, &e.AchievementsCompleted)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan leaderboard entry")
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
