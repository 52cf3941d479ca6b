package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/events"
	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/recurrence"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	bus    *events.Bus
	insert func(ctx context.Context, task *models.Task, tagIDs []int64) error
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	bus *events.Bus,
) TaskService {
	s := &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		bus:    bus,
	}
	s.insert = s.insertTask
	return s
}

func validateTaskParams(params *TaskParams) error {
	if params.Title == "" {
		return ErrMissingTitle
	}

	if params.Status == "" {
		params.Status = models.StatusPending
	} else if !models.ValidStatus(params.Status) {
		return ErrInvalidTaskStatus
	}

	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	} else if !models.ValidPriority(params.Priority) {
		return ErrInvalidTaskPriority
	}

	if params.IsRecurring {
		if params.RecurrencePattern == nil || params.RecurrenceInterval == nil {
			return ErrMissingRecurrence
		}
		if *params.RecurrenceInterval < 1 {
			return fmt.Errorf("%w: interval must be positive", ErrMissingRecurrence)
		}
		if _, err := recurrence.ParsePattern(*params.RecurrencePattern); err != nil {
			return err
		}
	}
	return nil
}

// nextOccurrence computes the successor of a recurring task. The second
// return value is false when no successor is due: the task is not
// recurring, has no due date, or its series is complete.
func nextOccurrence(task *models.Task) (*models.Task, bool, error) {
	if !task.IsRecurring || task.RecurrencePattern == nil ||
		task.RecurrenceInterval == nil || task.DueDate == nil {
		return nil, false, nil
	}

	pattern, err := recurrence.ParsePattern(*task.RecurrencePattern)
	if err != nil {
		return nil, false, err
	}

	next, err := recurrence.Next(*task.DueDate, pattern, *task.RecurrenceInterval)
	if err != nil {
		return nil, false, err
	}

	if task.RecurrenceEndDate != nil && next.After(*task.RecurrenceEndDate) {
		// Series complete, not an error.
		return nil, false, nil
	}

	parentID := task.ID
	successor := &models.Task{
		UserID:             task.UserID,
		ProjectID:          task.ProjectID,
		Title:              task.Title,
		Description:        task.Description,
		Status:             models.StatusPending,
		Priority:           task.Priority,
		DueDate:            &next,
		IsRecurring:        true,
		RecurrencePattern:  task.RecurrencePattern,
		RecurrenceInterval: task.RecurrenceInterval,
		RecurrenceEndDate:  task.RecurrenceEndDate,
		ParentTaskID:       &parentID,
	}
	return successor, true, nil
}

func validatePositions(positions []TaskPosition) error {
	if len(positions) == 0 {
		return fmt.Errorf("%w: empty positions list", ErrDuplicatePositions)
	}

	seenIDs := make(map[int64]struct{}, len(positions))
	seenPositions := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if _, ok := seenIDs[p.ID]; ok {
			return fmt.Errorf("%w: task %d listed twice", ErrDuplicatePositions, p.ID)
		}
		if _, ok := seenPositions[p.Position]; ok {
			return fmt.Errorf("%w: position %d assigned twice", ErrDuplicatePositions, p.Position)
		}
		seenIDs[p.ID] = struct{}{}
		seenPositions[p.Position] = struct{}{}
	}
	return nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	err := validateTaskParams(&params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid task params")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		UserID:             params.UserID,
		ProjectID:          params.ProjectID,
		Title:              params.Title,
		Description:        params.Description,
		Status:             params.Status,
		Priority:           params.Priority,
		DueDate:            params.DueDate,
		IsRecurring:        params.IsRecurring,
		RecurrencePattern:  params.RecurrencePattern,
		RecurrenceInterval: params.RecurrenceInterval,
		RecurrenceEndDate:  params.RecurrenceEndDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.insert(ctx, task, params.TagIDs)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")

	err = s.expand(ctx, task, params.TagIDs)
	if err != nil {
		// The parent task is already committed; surface the failure
		// without undoing it.
		return nil, err
	}

	s.bus.Publish(events.TaskUpserted{
		Task:   *task,
		Action: events.ActionCreated,
	})
	return s.GetTaskByID(ctx, task.UserID, task.ID)
}

// insertTask persists the task and its tag associations in a single
// transaction. The position is claimed inside the same transaction.
func (s *taskServiceImpl) insertTask(ctx context.Context, task *models.Task, tagIDs []int64) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const nextPositionQuery = `
SELECT COALESCE(MAX(position), 0) + 1
FROM tasks
WHERE user_id = $1
`
	err = tx.QueryRow(ctx, nextPositionQuery, task.UserID).Scan(&task.Position)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to claim next position")
		return err
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   project_id,
                   title,
                   description,
                   status,
                   priority,
                   position,
                   due_date,
                   is_recurring,
                   recurrence_pattern,
                   recurrence_interval,
                   recurrence_end_date,
                   parent_task_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`
	err = tx.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Position,
		task.DueDate,
		task.IsRecurring,
		task.RecurrencePattern,
		task.RecurrenceInterval,
		task.RecurrenceEndDate,
		task.ParentTaskID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	err = replaceTaskTags(ctx, tx, task.ID, tagIDs)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to associate tags")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func replaceTaskTags(ctx context.Context, tx pgx.Tx, taskID int64, tagIDs []int64) error {
	const deleteTaskTagsQuery = `
DELETE FROM task_tags
WHERE task_id = $1
`
	_, err := tx.Exec(ctx, deleteTaskTagsQuery, taskID)
	if err != nil {
		return err
	}

	const insertTaskTagQuery = `
INSERT INTO task_tags (task_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	for _, tagID := range tagIDs {
		_, err = tx.Exec(ctx, insertTaskTagQuery, taskID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// expand creates at most one successor for a recurring task, keeping
// the parent's tag associations. The successor insert goes through the
// plain insert path so a single create/update call never cascades into
// further occurrences.
func (s *taskServiceImpl) expand(ctx context.Context, task *models.Task, tagIDs []int64) error {
	successor, ok, err := nextOccurrence(task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to compute next occurrence")
		return err
	}
	if !ok {
		return nil
	}

	now := time.Now()
	successor.CreatedAt = now
	successor.UpdatedAt = now

	err = s.insert(ctx, successor, tagIDs)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("parent_task_id", task.ID).
			Msg("failed to create next occurrence")
		return err
	}

	s.logger.Info().
		Int64("task_id", successor.ID).
		Int64("parent_task_id", task.ID).
		Time("due_date", *successor.DueDate).
		Msg("created next occurrence")
	return nil
}

const selectTaskColumns = `
SELECT id,
       user_id,
       project_id,
       title,
       description,
       status,
       priority,
       position,
       due_date,
       is_recurring,
       recurrence_pattern,
       recurrence_interval,
       recurrence_end_date,
       parent_task_id,
       created_at,
       updated_at
FROM tasks
`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Position,
		&task.DueDate,
		&task.IsRecurring,
		&task.RecurrencePattern,
		&task.RecurrenceInterval,
		&task.RecurrenceEndDate,
		&task.ParentTaskID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID string, id int64) (*models.Task, error) {
	const query = selectTaskColumns + `
WHERE id = $1 AND user_id = $2
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", id).
				Str("user_id", userID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	err = s.attachTags(ctx, []*models.Task{task})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filters TaskFilters) ([]*models.Task, error) {
	query := selectTaskColumns + `
WHERE user_id = $1
`
	args := []any{userID}

	if filters.Keyword != "" {
		args = append(args, "%"+filters.Keyword+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Priority != "" {
		args = append(args, filters.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filters.ProjectID != nil {
		args = append(args, *filters.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filters.IsRecurring != nil {
		args = append(args, *filters.IsRecurring)
		query += fmt.Sprintf(" AND is_recurring = $%d", len(args))
	}
	if len(filters.TagIDs) > 0 {
		args = append(args, filters.TagIDs)
		query += fmt.Sprintf(` AND EXISTS (
    SELECT 1 FROM task_tags tt
    WHERE tt.task_id = tasks.id AND tt.tag_id = ANY($%d)
)`, len(args))
	}

	query += " ORDER BY position"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}
	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	err = s.attachTags(ctx, tasks)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) attachTags(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int64, len(tasks))
	byID := make(map[int64]*models.Task, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		byID[task.ID] = task
	}

	const selectTaskTagsQuery = `
SELECT tt.task_id, t.id, t.name, t.color, t.created_at
FROM task_tags tt
JOIN tags t ON t.id = tt.tag_id
WHERE tt.task_id = ANY($1)
ORDER BY t.name
`
	rows, err := s.pgPool.Query(ctx, selectTaskTagsQuery, ids)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select task tags")
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID int64
		var tag models.Tag
		err = rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan tag")
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, tag)
		}
	}
	return rows.Err()
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, params TaskParams) (*models.Task, error) {
	err := validateTaskParams(&params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid task params")
		return nil, err
	}

	previous, err := s.GetTaskByID(ctx, params.UserID, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task := &models.Task{
		ID:                 id,
		UserID:             params.UserID,
		ProjectID:          params.ProjectID,
		Title:              params.Title,
		Description:        params.Description,
		Status:             params.Status,
		Priority:           params.Priority,
		Position:           previous.Position,
		DueDate:            params.DueDate,
		IsRecurring:        params.IsRecurring,
		RecurrencePattern:  params.RecurrencePattern,
		RecurrenceInterval: params.RecurrenceInterval,
		RecurrenceEndDate:  params.RecurrenceEndDate,
		ParentTaskID:       previous.ParentTaskID,
		CreatedAt:          previous.CreatedAt,
		UpdatedAt:          time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET project_id = $1,
    title = $2,
    description = $3,
    status = $4,
    priority = $5,
    due_date = $6,
    is_recurring = $7,
    recurrence_pattern = $8,
    recurrence_interval = $9,
    recurrence_end_date = $10,
    updated_at = $11
WHERE id = $12 AND user_id = $13
`
	tag, err := tx.Exec(
		ctx,
		updateTaskQuery,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.IsRecurring,
		task.RecurrencePattern,
		task.RecurrenceInterval,
		task.RecurrenceEndDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTaskNotFound
	}

	err = replaceTaskTags(ctx, tx, task.ID, params.TagIDs)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to replace tags")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}
	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")

	err = s.expand(ctx, task, params.TagIDs)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TaskUpserted{
		Task:           *task,
		Action:         events.ActionUpdated,
		PreviousStatus: previous.Status,
	})
	return s.GetTaskByID(ctx, task.UserID, task.ID)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID string, id int64) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Generated successors stay alive, they only lose the back-reference.
	const detachSuccessorsQuery = `
UPDATE tasks
SET parent_task_id = NULL
WHERE parent_task_id = $1
`
	_, err = tx.Exec(ctx, detachSuccessorsQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to detach successors")
		return err
	}

	const deleteTaskTagsQuery = `
DELETE FROM task_tags
WHERE task_id = $1
`
	_, err = tx.Exec(ctx, deleteTaskTagsQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task tags")
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := tx.Exec(ctx, deleteTaskQuery, id, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("task_id", id).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Int64("task_id", id).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ReorderTasks(ctx context.Context, userID string, positions []TaskPosition) error {
	err := validatePositions(positions)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid positions")
		return err
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updatePositionQuery = `
UPDATE tasks
SET position = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
`
	now := time.Now()
	for _, p := range positions {
		tag, err := tx.Exec(ctx, updatePositionQuery, p.Position, now, p.ID, userID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", p.ID).
				Msg("failed to update position")
			return err
		}
		if tag.RowsAffected() == 0 {
			s.logger.Warn().
				Int64("task_id", p.ID).
				Msg("task not found during reorder")
			return ErrTaskNotFound
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Int("count", len(positions)).
		Str("user_id", userID).
		Msg("reordered tasks")
	return nil
}
