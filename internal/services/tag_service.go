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

type tagServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTagService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TagService {
	return &tagServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *tagServiceImpl) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	tag := &models.Tag{
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}

	const insertTagQuery = `
INSERT INTO tags (name, color, created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTagQuery,
		tag.Name,
		tag.Color,
		tag.CreatedAt,
	).Scan(&tag.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Warn().
				Str("name", tag.Name).
				Msg("tag already exists")
			return nil, ErrTagAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert tag")
		return nil, err
	}

	s.logger.Info().
		Int64("tag_id", tag.ID).
		Str("name", tag.Name).
		Msg("created tag")
	return tag, nil
}

func (s *tagServiceImpl) ListTags(ctx context.Context) ([]*models.Tag, error) {
	const selectTagsQuery = `
SELECT id, name, color, created_at
FROM tags
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, selectTagsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tags")
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func scanTags(rows pgx.Rows) ([]*models.Tag, error) {
	var tags []*models.Tag
	for rows.Next() {
		tag := new(models.Tag)
		err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *tagServiceImpl) GetTagByID(ctx context.Context, id int64) (*models.Tag, error) {
	const selectTagQuery = `
SELECT id, name, color, created_at
FROM tags
WHERE id = $1
`
	tag := new(models.Tag)
	err := s.pgPool.QueryRow(ctx, selectTagQuery, id).
		Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to select tag")
		return nil, err
	}
	return tag, nil
}

func (s *tagServiceImpl) UpdateTag(ctx context.Context, id int64, name, color string) (*models.Tag, error) {
	const updateTagQuery = `
UPDATE tags
SET name = $1,
    color = $2
WHERE id = $3
RETURNING created_at
`
	tag := &models.Tag{
		ID:    id,
		Name:  name,
		Color: color,
	}
	err := s.pgPool.QueryRow(ctx, updateTagQuery, name, color, id).Scan(&tag.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrTagAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to update tag")
		return nil, err
	}

	s.logger.Info().
		Int64("tag_id", id).
		Msg("updated tag")
	return tag, nil
}

func (s *tagServiceImpl) DeleteTag(ctx context.Context, id int64) error {
	const deleteTagQuery = `
DELETE FROM tags
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTagQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("tag_id", id).
			Msg("failed to delete tag")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	s.logger.Info().
		Int64("tag_id", id).
		Msg("deleted tag")
	return nil
}

func (s *tagServiceImpl) AddTagToTask(ctx context.Context, taskID, tagID int64) error {
	const insertTaskTagQuery = `
INSERT INTO task_tags (task_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	_, err := s.pgPool.Exec(ctx, insertTaskTagQuery, taskID, tagID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Int64("tag_id", tagID).
			Msg("failed to add tag to task")
		return err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("tag_id", tagID).
		Msg("added tag to task")
	return nil
}

func (s *tagServiceImpl) RemoveTagFromTask(ctx context.Context, taskID, tagID int64) error {
	const deleteTaskTagQuery = `
DELETE FROM task_tags
WHERE task_id = $1 AND tag_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskTagQuery, taskID, tagID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Int64("tag_id", tagID).
			Msg("failed to remove tag from task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("tag_id", tagID).
		Msg("removed tag from task")
	return nil
}

func (s *tagServiceImpl) ListTaskTags(ctx context.Context, taskID int64) ([]*models.Tag, error) {
	const selectTaskTagsQuery = `
SELECT t.id, t.name, t.color, t.created_at
FROM tags t
JOIN task_tags tt ON tt.tag_id = t.id
WHERE tt.task_id = $1
ORDER BY t.name
`
	rows, err := s.pgPool.Query(ctx, selectTaskTagsQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task tags")
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}
