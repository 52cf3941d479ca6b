package models

import "time"

type Tag struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
}
