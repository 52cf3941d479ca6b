package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type commentServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewCommentService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) CommentService {
	return &commentServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// buildCommentTree nests a flat comment list into root comments with
// Replies populated. Roots keep their input order; replies are sorted
// by creation time. Replies whose parent is missing from the input are
// promoted to roots rather than dropped.
func buildCommentTree(flat []*models.Comment) []*models.Comment {
	byID := make(map[int64]*models.Comment, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	var roots []*models.Comment
	for _, c := range flat {
		if c.ParentCommentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentCommentID]
		if !ok {
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	for _, c := range flat {
		sort.SliceStable(c.Replies, func(i, j int) bool {
			return c.Replies[i].CreatedAt.Before(c.Replies[j].CreatedAt)
		})
	}
	return roots
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, params CommentParams) (*models.Comment, error) {
	now := time.Now()
	comment := &models.Comment{
		TaskID:          params.TaskID,
		UserID:          params.UserID,
		ParentCommentID: params.ParentCommentID,
		Content:         params.Content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if comment.ParentCommentID != nil {
		const selectParentTaskQuery = `
SELECT task_id
FROM comments
WHERE id = $1
`
		var parentTaskID int64
		err := s.pgPool.QueryRow(ctx, selectParentTaskQuery, *comment.ParentCommentID).
			Scan(&parentTaskID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCommentNotFound
			}

			s.logger.Error().
				Err(err).
				Msg("failed to select parent comment")
			return nil, err
		}
		if parentTaskID != comment.TaskID {
			s.logger.Warn().
				Int64("parent_comment_id", *comment.ParentCommentID).
				Int64("task_id", comment.TaskID).
				Msg("parent comment belongs to another task")
			return nil, ErrCommentNotFound
		}
	}

	const insertCommentQuery = `
INSERT INTO comments (task_id, user_id, parent_comment_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertCommentQuery,
		comment.TaskID,
		comment.UserID,
		comment.ParentCommentID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", comment.TaskID).
			Msg("failed to insert comment")
		return nil, err
	}

	s.logger.Info().
		Int64("comment_id", comment.ID).
		Int64("task_id", comment.TaskID).
		Msg("created comment")
	return comment, nil
}

func (s *commentServiceImpl) ListTaskComments(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	const selectCommentTreeQuery = `
WITH RECURSIVE comment_tree AS (
    SELECT c.id, c.task_id, c.user_id, c.parent_comment_id, c.content,
           c.created_at, c.updated_at, 0 AS depth
    FROM comments c
    WHERE c.task_id = $1 AND c.parent_comment_id IS NULL

    UNION ALL

    SELECT c.id, c.task_id, c.user_id, c.parent_comment_id, c.content,
           c.created_at, c.updated_at, ct.depth + 1
    FROM comments c
    JOIN comment_tree ct ON c.parent_comment_id = ct.id
)
SELECT ct.id, ct.task_id, ct.user_id, ct.parent_comment_id, ct.content,
       ct.created_at, ct.updated_at, ct.depth, u.email
FROM comment_tree ct
JOIN users u ON u.id = ct.user_id
ORDER BY ct.depth, ct.created_at
`
	rows, err := s.pgPool.Query(ctx, selectCommentTreeQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select comments")
		return nil, err
	}
	defer rows.Close()

	var flat []*models.Comment
	for rows.Next() {
		c := new(models.Comment)
		err = rows.Scan(
			&c.ID,
			&c.TaskID,
			&c.UserID,
			&c.ParentCommentID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Depth,
			&c.AuthorEmail,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan comment")
			return nil, err
		}
		flat = append(flat, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return buildCommentTree(flat), nil
}

func (s *commentServiceImpl) UpdateComment(ctx context.Context, id int64, userID, content string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:        id,
		UserID:    userID,
		Content:   content,
		UpdatedAt: time.Now(),
	}

	const updateCommentQuery = `
UPDATE comments
SET content = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING task_id, parent_comment_id, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateCommentQuery,
		comment.Content,
		comment.UpdatedAt,
		comment.ID,
		comment.UserID,
	).Scan(
		&comment.TaskID,
		&comment.ParentCommentID,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("comment_id", id).
				Str("user_id", userID).
				Msg("comment not found or not owned by user")
			return nil, ErrCommentNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("comment_id", id).
			Msg("failed to update comment")
		return nil, err
	}

	s.logger.Info().
		Int64("comment_id", id).
		Msg("updated comment")
	return comment, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, id int64, userID string) error {
	const deleteCommentQuery = `
DELETE FROM comments
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteCommentQuery, id, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("comment_id", id).
			Msg("failed to delete comment")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	s.logger.Info().
		Int64("comment_id", id).
		Msg("deleted comment")
	return nil
}
