package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type analyticsServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewAnalyticsService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) AnalyticsService {
	return &analyticsServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *analyticsServiceImpl) DashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	const dashboardQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = $2),
       COUNT(*) FILTER (WHERE status = $3),
       COUNT(*) FILTER (WHERE status = $4),
       COUNT(*) FILTER (WHERE status = $5),
       COUNT(*) FILTER (WHERE due_date < NOW() AND status NOT IN ($4, $5)),
       COUNT(*) FILTER (WHERE status = $4 AND updated_at >= NOW() - INTERVAL '7 days')
FROM tasks
WHERE user_id = $1
`
	stats := new(DashboardStats)
	err := s.pgPool.QueryRow(
		ctx,
		dashboardQuery,
		userID,
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusCancelled,
	).Scan(
		&stats.TotalTasks,
		&stats.PendingTasks,
		&stats.InProgressTasks,
		&stats.CompletedTasks,
		&stats.CancelledTasks,
		&stats.OverdueTasks,
		&stats.CompletedLast7Days,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select dashboard stats")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("total", stats.TotalTasks).
		Msg("selected dashboard stats")
	return stats, nil
}

func (s *analyticsServiceImpl) ProductivityTrend(ctx context.Context, userID string, days int) ([]DailyCompletion, error) {
	if days < 1 {
		days = 30
	}

	const trendQuery = `
SELECT DATE(updated_at) AS day,
       COUNT(*)
FROM tasks
WHERE user_id = $1 AND
      status = $2 AND
      updated_at >= NOW() - ($3 || ' days')::interval
GROUP BY day
ORDER BY day
`
	rows, err := s.pgPool.Query(ctx, trendQuery, userID, models.StatusCompleted, days)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select productivity trend")
		return nil, err
	}
	defer rows.Close()

	var trend []DailyCompletion
	for rows.Next() {
		var d DailyCompletion
		err = rows.Scan(&d.Day, &d.Completed)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan trend row")
			return nil, err
		}
		trend = append(trend, d)
	}
	return trend, rows.Err()
}
