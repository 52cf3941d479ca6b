package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type timeEntryServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTimeEntryService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TimeEntryService {
	return &timeEntryServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *timeEntryServiceImpl) StartTimer(ctx context.Context, params StartTimerParams) (*models.TimeEntry, error) {
	const selectRunningQuery = `
SELECT id
FROM time_entries
WHERE task_id = $1 AND user_id = $2 AND end_time IS NULL
`
	var runningID int64
	err := s.pgPool.QueryRow(ctx, selectRunningQuery, params.TaskID, params.UserID).
		Scan(&runningID)
	if err == nil {
		s.logger.Warn().
			Int64("task_id", params.TaskID).
			Int64("time_entry_id", runningID).
			Msg("timer already running")
		return nil, ErrTimerAlreadyRunning
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().
			Err(err).
			Msg("failed to check running timer")
		return nil, err
	}

	now := time.Now()
	entry := &models.TimeEntry{
		TaskID:      params.TaskID,
		UserID:      params.UserID,
		Description: params.Description,
		StartTime:   now,
		CreatedAt:   now,
	}

	const insertEntryQuery = `
INSERT INTO time_entries (task_id, user_id, description, start_time, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertEntryQuery,
		entry.TaskID,
		entry.UserID,
		entry.Description,
		entry.StartTime,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.TaskID).
			Msg("failed to insert time entry")
		return nil, err
	}

	s.logger.Info().
		Int64("time_entry_id", entry.ID).
		Int64("task_id", entry.TaskID).
		Msg("started timer")
	return entry, nil
}

func (s *timeEntryServiceImpl) StopTimer(ctx context.Context, id int64, userID string) (*models.TimeEntry, error) {
	now := time.Now()

	const stopTimerQuery = `
UPDATE time_entries
SET end_time = $1,
    duration_seconds = EXTRACT(EPOCH FROM ($1 - start_time))::bigint
WHERE id = $2 AND user_id = $3 AND end_time IS NULL
RETURNING task_id, description, start_time, duration_seconds, created_at
`
	entry := &models.TimeEntry{
		ID:      id,
		UserID:  userID,
		EndTime: &now,
	}
	err := s.pgPool.QueryRow(ctx, stopTimerQuery, now, id, userID).Scan(
		&entry.TaskID,
		&entry.Description,
		&entry.StartTime,
		&entry.DurationSeconds,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("time_entry_id", id).
				Msg("running time entry not found")
			return nil, ErrTimeEntryNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("time_entry_id", id).
			Msg("failed to stop timer")
		return nil, err
	}

	s.logger.Info().
		Int64("time_entry_id", id).
		Int64("duration_seconds", entry.DurationSeconds).
		Msg("stopped timer")
	return entry, nil
}

func (s *timeEntryServiceImpl) ListTaskEntries(ctx context.Context, taskID int64, userID string) ([]*models.TimeEntry, error) {
	const selectEntriesQuery = `
SELECT id, task_id, user_id, description, start_time, end_time,
       COALESCE(duration_seconds, 0), created_at
FROM time_entries
WHERE task_id = $1 AND user_id = $2
ORDER BY start_time DESC
`
	rows, err := s.pgPool.Query(ctx, selectEntriesQuery, taskID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select time entries")
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TimeEntry
	for rows.Next() {
		e := new(models.TimeEntry)
		err = rows.Scan(
			&e.ID,
			&e.TaskID,
			&e.UserID,
			&e.Description,
			&e.StartTime,
			&e.EndTime,
			&e.DurationSeconds,
			&e.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan time entry")
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
