package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MarcMan710/PosTask/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrTaskNotFound         = errors.New("task not found")
	ErrMissingTitle         = errors.New("title is required")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
	ErrMissingRecurrence    = errors.New("recurring task requires pattern and interval")
	ErrDuplicatePositions   = errors.New("positions must be unique")
	ErrTagNotFound          = errors.New("tag not found")
	ErrTagAlreadyExists     = errors.New("tag already exists")
	ErrProjectNotFound      = errors.New("project not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTimeEntryNotFound    = errors.New("time entry not found")
	ErrTimerAlreadyRunning  = errors.New("timer already running for this task")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID, creates a new
	// session and generates a fresh JWT token pair.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the session with the given refresh token.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register creates a user, a session and a fresh JWT token pair.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// CreateTask persists the task and its tag associations in one
	// transaction. If the task is recurring it then creates exactly one
	// successor occurrence; a successor failure does not undo the
	// already committed task.
	CreateTask(ctx context.Context, params TaskParams) (*models.Task, error)

	GetTaskByID(ctx context.Context, userID string, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, userID string, filters TaskFilters) ([]*models.Task, error)

	// UpdateTask replaces the task fields and tag associations in one
	// transaction and expands the recurrence like CreateTask does.
	UpdateTask(ctx context.Context, id int64, params TaskParams) (*models.Task, error)

	DeleteTask(ctx context.Context, userID string, id int64) error

	// ReorderTasks rewrites the position of every listed task in one
	// transaction. Duplicate positions or ids are rejected up front.
	ReorderTasks(ctx context.Context, userID string, positions []TaskPosition) error
}

type TagService interface {
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	GetTagByID(ctx context.Context, id int64) (*models.Tag, error)
	UpdateTag(ctx context.Context, id int64, name, color string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	AddTagToTask(ctx context.Context, taskID, tagID int64) error
	RemoveTagFromTask(ctx context.Context, taskID, tagID int64) error
	ListTaskTags(ctx context.Context, taskID int64) ([]*models.Tag, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, params ProjectParams) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id int64) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, params ProjectParams) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListProjectTasks(ctx context.Context, projectID int64) ([]*models.Task, error)
	AddMember(ctx context.Context, projectID int64, userID, role string) error
	RemoveMember(ctx context.Context, projectID int64, userID string) error
	ListMembers(ctx context.Context, projectID int64) ([]*models.ProjectMember, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, params CommentParams) (*models.Comment, error)

	// ListTaskComments returns the task's comments as a nested tree,
	// root comments first, replies ordered by creation time.
	ListTaskComments(ctx context.Context, taskID int64) ([]*models.Comment, error)

	UpdateComment(ctx context.Context, id int64, userID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64, userID string) error
}

type NotificationService interface {
	// ScheduleReminder persists a REMINDER notification 24 hours before
	// the task's due date and attempts one best-effort immediate email.
	// Tasks without a due date are ignored.
	ScheduleReminder(ctx context.Context, task *models.Task) error

	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error

	// PendingBefore returns every unread notification scheduled at or
	// before now, joined with the task title and recipient email.
	PendingBefore(ctx context.Context, now time.Time) ([]*models.PendingNotification, error)
	MarkSent(ctx context.Context, id int64) error
}

type TimeEntryService interface {
	StartTimer(ctx context.Context, params StartTimerParams) (*models.TimeEntry, error)
	StopTimer(ctx context.Context, id int64, userID string) (*models.TimeEntry, error)
	ListTaskEntries(ctx context.Context, taskID int64, userID string) ([]*models.TimeEntry, error)
}

type AnalyticsService interface {
	DashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
	ProductivityTrend(ctx context.Context, userID string, days int) ([]DailyCompletion, error)
}

type GamificationService interface {
	// OnTaskCompleted advances task-completion and streak progress for
	// the user. Called once per transition into the completed status.
	OnTaskCompleted(ctx context.Context, userID string, completedAt time.Time) error

	UserProgress(ctx context.Context, userID string) (*ProgressReport, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
}

type ActivityService interface {
	// RecordTaskActivity appends an activity row. Failures are logged
	// and swallowed so that logging never breaks the main operation.
	RecordTaskActivity(ctx context.Context, userID string, taskID int64, action string, oldValues, newValues any)

	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type TaskParams struct {
	UserID             string
	ProjectID          *int64
	Title              string
	Description        string
	Status             string
	Priority           string
	DueDate            *time.Time
	TagIDs             []int64
	IsRecurring        bool
	RecurrencePattern  *string
	RecurrenceInterval *int
	RecurrenceEndDate  *time.Time
}

type TaskFilters struct {
	Keyword     string
	Status      string
	Priority    string
	TagIDs      []int64
	ProjectID   *int64
	IsRecurring *bool
}

type TaskPosition struct {
	ID       int64
	Position int
}

type ProjectParams struct {
	Name        string
	Description string
	Color       string
}

type CommentParams struct {
	TaskID          int64
	UserID          string
	ParentCommentID *int64
	Content         string
}

type StartTimerParams struct {
	TaskID      int64
	UserID      string
	Description string
}

type DashboardStats struct {
	TotalTasks         int
	PendingTasks       int
	InProgressTasks    int
	CompletedTasks     int
	CancelledTasks     int
	OverdueTasks       int
	CompletedLast7Days int
}

type DailyCompletion struct {
	Day       time.Time
	Completed int
}

type ProgressReport struct {
	Progress              []*models.UserProgress
	TotalPoints           int
	CompletedAchievements int
	CurrentStreak         int
	LongestStreak         int
}
