package models

import "time"

type TimeEntry struct {
	ID          int64
	TaskID      int64
	UserID      string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	// DurationSeconds is zero while the timer is running.
	DurationSeconds int64
	CreatedAt       time.Time
}
