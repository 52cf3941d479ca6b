package models

import "time"

const (
	AchievementTaskCompletion = "task_completion"
	AchievementStreak         = "streak"
)

type Achievement struct {
	ID          int64
	Name        string
	Description string
	Type        string
	Requirement int
	Points      int
	IsActive    bool
}

type UserProgress struct {
	ID                int64
	UserID            string
	AchievementID     int64
	Progress          int
	Completed         bool
	CompletedAt       *time.Time
	TotalPoints       int
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *time.Time
	Achievement       *Achievement
}

type LeaderboardEntry struct {
	UserID                string
	Email                 string
	TotalPoints           int
	AchievementsCompleted int
}
