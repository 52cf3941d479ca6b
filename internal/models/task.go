package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID                 int64
	UserID             string
	ProjectID          *int64
	Title              string
	Description        string
	Status             string
	Priority           string
	Position           int
	DueDate            *time.Time
	IsRecurring        bool
	RecurrencePattern  *string
	RecurrenceInterval *int
	RecurrenceEndDate  *time.Time
	ParentTaskID       *int64
	Tags               []Tag
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
