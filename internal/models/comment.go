package models

import "time"

type Comment struct {
	ID              int64
	TaskID          int64
	UserID          string
	ParentCommentID *int64
	Content         string
	AuthorEmail     string
	Depth           int
	Replies         []*Comment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
