package models

import "time"

type Project struct {
	ID          int64
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectMember struct {
	ProjectID int64
	UserID    string
	Role      string
	AddedAt   time.Time
}
