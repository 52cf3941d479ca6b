package models

import "time"

const NotificationTypeReminder = "REMINDER"

type Notification struct {
	ID           int64
	TaskID       int64
	UserID       string
	Type         string
	Message      string
	ScheduledFor time.Time
	IsRead       bool
	CreatedAt    time.Time
}

// PendingNotification is a notification joined with the data
// the dispatcher needs to deliver it.
type PendingNotification struct {
	Notification
	TaskTitle string
	UserEmail string
}
