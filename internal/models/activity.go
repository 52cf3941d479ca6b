package models

import "time"

type ActivityLog struct {
	ID         int64
	UserID     string
	EntityType string
	EntityID   int64
	Action     string
	OldValues  []byte
	NewValues  []byte
	CreatedAt  time.Time
}
