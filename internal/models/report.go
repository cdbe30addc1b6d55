package models

import (
	"fmt"
	"time"
)

// LeaderboardEntry is one ranked row of accumulated time
type LeaderboardEntry struct {
	UserID       int64
	Identity     string
	Name         string
	TotalSeconds int64
}

// HistoryEntry is one completed work interval with the user's course rating
type HistoryEntry struct {
	LogID      int64
	CourseID   int64
	CourseName string
	Duration   int64
	StartedAt  time.Time
	LoggedAt   time.Time
	Rating     *int
}

// FormatElapsed renders seconds as H:MM:SS
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
