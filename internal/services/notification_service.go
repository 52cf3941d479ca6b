package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/mail"
	"github.com/MarcMan710/PosTask/internal/models"
)

// reminderLead is how far ahead of the due date a reminder fires.
const reminderLead = 24 * time.Hour

func reminderTime(dueDate time.Time) time.Time {
	return dueDate.Add(-reminderLead)
}

func reminderMessage(taskTitle string) string {
	return fmt.Sprintf("Reminder: Task %q is due in 24 hours.", taskTitle)
}

func reminderSubject(taskTitle string) string {
	return fmt.Sprintf("Task Reminder: %s", taskTitle)
}

type notificationServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	mailer mail.Sender
}

func NewNotificationService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	mailer mail.Sender,
) NotificationService {
	return &notificationServiceImpl{
		logger: logger,
		pgPool: pgPool,
		mailer: mailer,
	}
}

func (s *notificationServiceImpl) ScheduleReminder(ctx context.Context, task *models.Task) error {
	if task.DueDate == nil || task.UserID == "" {
		return nil
	}

	notification := &models.Notification{
		TaskID:       task.ID,
		UserID:       task.UserID,
		Type:         models.NotificationTypeReminder,
		Message:      reminderMessage(task.Title),
		ScheduledFor: reminderTime(*task.DueDate),
		CreatedAt:    time.Now(),
	}

	const insertNotificationQuery = `
INSERT INTO notifications (task_id,
                           user_id,
                           type,
                           message,
                           scheduled_for,
                           is_read,
                           created_at)
VALUES ($1, $2, $3, $4, $5, false, $6)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertNotificationQuery,
		notification.TaskID,
		notification.UserID,
		notification.Type,
		notification.Message,
		notification.ScheduledFor,
		notification.CreatedAt,
	).Scan(&notification.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to insert notification")
		return err
	}
	s.logger.Info().
		Int64("notification_id", notification.ID).
		Int64("task_id", task.ID).
		Time("scheduled_for", notification.ScheduledFor).
		Msg("scheduled reminder")

	// Best-effort immediate email; a transport failure must not fail
	// the scheduling.
	email, err := s.userEmail(ctx, task.UserID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", task.UserID).
			Msg("skipping immediate reminder email")
		return nil
	}

	err = s.mailer.Send(email, reminderSubject(task.Title), notification.Message)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to send immediate reminder email")
	}
	return nil
}

func (s *notificationServiceImpl) userEmail(ctx context.Context, userID string) (string, error) {
	const selectUserEmailQuery = `
SELECT email
FROM users
WHERE id = $1
`
	var email string
	err := s.pgPool.QueryRow(ctx, selectUserEmailQuery, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return email, nil
}

func (s *notificationServiceImpl) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	const selectNotificationsQuery = `
SELECT id,
       task_id,
       user_id,
       type,
       message,
       scheduled_for,
       is_read,
       created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectNotificationsQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select notifications")
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := new(models.Notification)
		err = rows.Scan(
			&n.ID,
			&n.TaskID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&n.ScheduledFor,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan notification")
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, id int64, userID string) error {
	const markReadQuery = `
UPDATE notifications
SET is_read = true
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, markReadQuery, id, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("notification_id", id).
			Msg("failed to mark notification read")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	s.logger.Info().
		Int64("notification_id", id).
		Msg("marked notification read")
	return nil
}

func (s *notificationServiceImpl) PendingBefore(ctx context.Context, now time.Time) ([]*models.PendingNotification, error) {
	const selectPendingQuery = `
SELECT n.id,
       n.task_id,
       n.user_id,
       n.type,
       n.message,
       n.scheduled_for,
       n.created_at,
       t.title,
       u.email
FROM notifications n
JOIN tasks t ON t.id = n.task_id
JOIN users u ON u.id = n.user_id
WHERE n.scheduled_for <= $1 AND
      n.is_read = false
`
	rows, err := s.pgPool.Query(ctx, selectPendingQuery, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select pending notifications")
		return nil, err
	}
	defer rows.Close()

	var pending []*models.PendingNotification
	for rows.Next() {
		p := new(models.PendingNotification)
		err = rows.Scan(
			&p.ID,
			&p.TaskID,
			&p.UserID,
			&p.Type,
			&p.Message,
			&p.ScheduledFor,
			&p.CreatedAt,
			&p.TaskTitle,
			&p.UserEmail,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan pending notification")
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (s *notificationServiceImpl) MarkSent(ctx context.Context, id int64) error {
	const markSentQuery = `
UPDATE notifications
SET is_read = true
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, markSentQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("notification_id", id).
			Msg("failed to mark notification sent")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
