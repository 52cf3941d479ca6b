package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/mail"
)

// Dispatcher delivers due reminder notifications by email. One pass
// selects every unread notification whose scheduled time has arrived,
// sends each independently and marks the delivered ones read. There is
// no retry state: a failed send stays pending for the next pass.
type Dispatcher struct {
	logger        zerolog.Logger
	notifications NotificationService
	mailer        mail.Sender
	now           func() time.Time
}

func NewDispatcher(
	logger zerolog.Logger,
	notifications NotificationService,
	mailer mail.Sender,
) *Dispatcher {
	return &Dispatcher{
		logger:        logger,
		notifications: notifications,
		mailer:        mailer,
		now:           time.Now,
	}
}

// RunOnce executes a single dispatcher tick. Per-notification failures
// are logged and never abort the rest of the batch.
func (d *Dispatcher) RunOnce(ctx context.Context) {
	pending, err := d.notifications.PendingBefore(ctx, d.now())
	if err != nil {
		d.logger.Error().
			Err(err).
			Msg("failed to fetch pending notifications")
		return
	}
	if len(pending) == 0 {
		return
	}

	sent := 0
	for _, notification := range pending {
		err = d.mailer.Send(
			notification.UserEmail,
			reminderSubject(notification.TaskTitle),
			notification.Message,
		)
		if err != nil {
			d.logger.Warn().
				Err(err).
				Int64("notification_id", notification.ID).
				Str("email", notification.UserEmail).
				Msg("failed to send notification email")
			continue
		}

		err = d.notifications.MarkSent(ctx, notification.ID)
		if err != nil {
			d.logger.Error().
				Err(err).
				Int64("notification_id", notification.ID).
				Msg("failed to mark notification sent")
			continue
		}
		sent++
	}

	d.logger.Info().
		Int("pending", len(pending)).
		Int("sent", sent).
		Msg("dispatcher tick complete")
}
