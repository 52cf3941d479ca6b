package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type activityServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewActivityService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ActivityService {
	return &activityServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *activityServiceImpl) RecordTaskActivity(ctx context.Context, userID string, taskID int64, action string, oldValues, newValues any) {
	oldJSON, err := marshalValues(oldValues)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("failed to marshal old values")
		return
	}
	newJSON, err := marshalValues(newValues)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("failed to marshal new values")
		return
	}

	const insertActivityQuery = `
INSERT INTO activity_log (user_id, entity_type, entity_id, action, old_values, new_values, created_at)
VALUES ($1, 'task', $2, $3, $4, $5, $6)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertActivityQuery,
		userID,
		taskID,
		action,
		oldJSON,
		newJSON,
		time.Now(),
	)
	if err != nil {
		// Activity logging must never break the operation it records.
		s.logger.Warn().
			Err(err).
			Int64("task_id", taskID).
			Str("action", action).
			Msg("failed to record activity")
		return
	}

	s.logger.Debug().
		Int64("task_id", taskID).
		Str("action", action).
		Msg("recorded activity")
}

func marshalValues(values any) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}

func (s *activityServiceImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error) {
	if limit < 1 {
		limit = 50
	}

	const selectActivityQuery = `
SELECT id, user_id, entity_type, entity_id, action, old_values, new_values, created_at
FROM activity_log
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := s.pgPool.Query(ctx, selectActivityQuery, userID, limit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select activity log")
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ActivityLog
	for rows.Next() {
		l := new(models.ActivityLog)
		err = rows.Scan(
			&l.ID,
			&l.UserID,
			&l.EntityType,
			&l.EntityID,
			&l.Action,
			&l.OldValues,
			&l.NewValues,
			&l.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan activity log")
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
