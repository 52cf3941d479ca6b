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

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params ProjectParams) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertProjectQuery = `
INSERT INTO projects (name, description, color, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertProjectQuery,
		project.Name,
		project.Description,
		project.Color,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Int64("project_id", project.ID).
		Str("name", project.Name).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*models.Project, error) {
	const selectProjectsQuery = `
SELECT id, name, description, color, created_at, updated_at
FROM projects
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectProjectsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p := new(models.Project)
		err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	const selectProjectQuery = `
SELECT id, name, description, color, created_at, updated_at
FROM projects
WHERE id = $1
`
	p := new(models.Project)
	err := s.pgPool.QueryRow(ctx, selectProjectQuery, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to select project")
		return nil, err
	}
	return p, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, id int64, params ProjectParams) (*models.Project, error) {
	project := &models.Project{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
		UpdatedAt:   time.Now(),
	}

	const updateProjectQuery = `
UPDATE projects
SET name = $1,
    description = $2,
    color = $3,
    updated_at = $4
WHERE id = $5
RETURNING created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateProjectQuery,
		project.Name,
		project.Description,
		project.Color,
		project.UpdatedAt,
		project.ID,
	).Scan(&project.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to update project")
		return nil, err
	}

	s.logger.Info().
		Int64("project_id", id).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, id int64) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Tasks survive project deletion, they just become unassigned.
	const detachTasksQuery = `
UPDATE tasks
SET project_id = NULL
WHERE project_id = $1
`
	_, err = tx.Exec(ctx, detachTasksQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to detach project tasks")
		return err
	}

	const deleteMembersQuery = `
DELETE FROM project_members
WHERE project_id = $1
`
	_, err = tx.Exec(ctx, deleteMembersQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to delete project members")
		return err
	}

	const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1
`
	tag, err := tx.Exec(ctx, deleteProjectQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", id).
			Msg("failed to delete project")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Int64("project_id", id).
		Msg("deleted project")
	return nil
}

func (s *projectServiceImpl) ListProjectTasks(ctx context.Context, projectID int64) ([]*models.Task, error) {
	const query = selectTaskColumns + `
WHERE project_id = $1
ORDER BY position
`
	rows, err := s.pgPool.Query(ctx, query, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to select project tasks")
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
	return tasks, rows.Err()
}

func (s *projectServiceImpl) AddMember(ctx context.Context, projectID int64, userID, role string) error {
	if role == "" {
		role = "member"
	}

	const insertMemberQuery = `
INSERT INTO project_members (project_id, user_id, role, added_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role
`
	_, err := s.pgPool.Exec(ctx, insertMemberQuery, projectID, userID, role, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Str("user_id", userID).
			Msg("failed to add project member")
		return err
	}

	s.logger.Info().
		Int64("project_id", projectID).
		Str("user_id", userID).
		Str("role", role).
		Msg("added project member")
	return nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, projectID int64, userID string) error {
	const deleteMemberQuery = `
DELETE FROM project_members
WHERE project_id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteMemberQuery, projectID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Str("user_id", userID).
			Msg("failed to remove project member")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	s.logger.Info().
		Int64("project_id", projectID).
		Str("user_id", userID).
		Msg("removed project member")
	return nil
}

func (s *projectServiceImpl) ListMembers(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	const selectMembersQuery = `
SELECT project_id, user_id, role, added_at
FROM project_members
WHERE project_id = $1
ORDER BY added_at
`
	rows, err := s.pgPool.Query(ctx, selectMembersQuery, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to select project members")
		return nil, err
	}
	defer rows.Close()

	var members []*models.ProjectMember
	for rows.Next() {
		m := new(models.ProjectMember)
		err = rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project member")
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
