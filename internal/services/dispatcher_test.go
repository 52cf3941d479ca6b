package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
)

type fakeNotificationService struct {
	pending     []*models.PendingNotification
	pendingErr  error
	markSentErr error

	pendingCutoff time.Time
	sentIDs       []int64
}

func (f *fakeNotificationService) ScheduleReminder(context.Context, *models.Task) error {
	return nil
}

func (f *fakeNotificationService) ListByUser(context.Context, string) ([]*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationService) MarkRead(context.Context, int64, string) error {
	return nil
}

func (f *fakeNotificationService) PendingBefore(_ context.Context, now time.Time) ([]*models.PendingNotification, error) {
	f.pendingCutoff = now
	return f.pending, f.pendingErr
}

func (f *fakeNotificationService) MarkSent(_ context.Context, id int64) error {
	if f.markSentErr != nil {
		return f.markSentErr
	}
	f.sentIDs = append(f.sentIDs, id)
	return nil
}

type fakeSender struct {
	failFor map[string]error
	sent    []string
}

func (f *fakeSender) Send(to, _, _ string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

func pendingReminder(id int64, email string) *models.PendingNotification {
	return &models.PendingNotification{
		Notification: models.Notification{
			ID:      id,
			Type:    models.NotificationTypeReminder,
			Message: reminderMessage("Pay rent"),
		},
		TaskTitle: "Pay rent",
		UserEmail: email,
	}
}

func newTestDispatcher(notifications NotificationService, sender *fakeSender, now time.Time) *Dispatcher {
	d := NewDispatcher(zerolog.Nop(), notifications, sender)
	d.now = func() time.Time { return now }
	return d
}

func TestDispatcherRunOnce(t *testing.T) {
	now := date("2024-05-09T09:00:00Z")

	t.Run("sends and marks due notifications", func(t *testing.T) {
		notifications := &fakeNotificationService{
			pending: []*models.PendingNotification{
				pendingReminder(1, "a@example.com"),
				pendingReminder(2, "b@example.com"),
			},
		}
		sender := &fakeSender{}

		newTestDispatcher(notifications, sender, now).RunOnce(context.Background())

		if !notifications.pendingCutoff.Equal(now) {
			t.Errorf("cutoff = %s, want %s", notifications.pendingCutoff, now)
		}
		if len(sender.sent) != 2 {
			t.Fatalf("sent %d emails, want 2", len(sender.sent))
		}
		if len(notifications.sentIDs) != 2 ||
			notifications.sentIDs[0] != 1 || notifications.sentIDs[1] != 2 {
			t.Errorf("marked sent = %v, want [1 2]", notifications.sentIDs)
		}
	})

	t.Run("one failed send does not block the rest", func(t *testing.T) {
		notifications := &fakeNotificationService{
			pending: []*models.PendingNotification{
				pendingReminder(1, "a@example.com"),
				pendingReminder(2, "broken@example.com"),
				pendingReminder(3, "c@example.com"),
			},
		}
		sender := &fakeSender{
			failFor: map[string]error{"broken@example.com": errors.New("smtp timeout")},
		}

		newTestDispatcher(notifications, sender, now).RunOnce(context.Background())

		if len(sender.sent) != 2 {
			t.Fatalf("sent %d emails, want 2", len(sender.sent))
		}
		if len(notifications.sentIDs) != 2 ||
			notifications.sentIDs[0] != 1 || notifications.sentIDs[1] != 3 {
			t.Errorf("marked sent = %v, want [1 3]", notifications.sentIDs)
		}
	})

	t.Run("failed mark leaves notification pending", func(t *testing.T) {
		notifications := &fakeNotificationService{
			pending:     []*models.PendingNotification{pendingReminder(1, "a@example.com")},
			markSentErr: errors.New("connection reset"),
		}
		sender := &fakeSender{}

		newTestDispatcher(notifications, sender, now).RunOnce(context.Background())

		if len(notifications.sentIDs) != 0 {
			t.Errorf("marked sent = %v, want none", notifications.sentIDs)
		}
	})

	t.Run("fetch failure aborts the tick", func(t *testing.T) {
		notifications := &fakeNotificationService{pendingErr: errors.New("pool closed")}
		sender := &fakeSender{}

		newTestDispatcher(notifications, sender, now).RunOnce(context.Background())

		if len(sender.sent) != 0 {
			t.Errorf("sent %d emails, want 0", len(sender.sent))
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		notifications := &fakeNotificationService{}
		sender := &fakeSender{}

		newTestDispatcher(notifications, sender, now).RunOnce(context.Background())

		if len(sender.sent) != 0 || len(notifications.sentIDs) != 0 {
			t.Error("expected no sends on an empty batch")
		}
	})
}
