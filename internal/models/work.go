package models

import "time"

// WorkSession is the live "working" row; at most one exists per user
type WorkSession struct {
	UserID         int64
	CourseID       int64
	Since          time.Time
	ElapsedSeconds int64

	// populated by queries that join names
	UserName   string
	CourseName string
}

// LogEntry is a completed, immutable work interval
type LogEntry struct {
	ID        int64
	UserID    int64
	CourseID  int64
	Duration  int64
	StartedAt time.Time
	LoggedAt  time.Time
}

// ArchiveEntry is a denormalized copy of a LogEntry taken before a destructive delete
type ArchiveEntry struct {
	ID                int64
	BatchID           string
	LogID             int64
	UserID            int64
	UserIdentity      string
	UserName          string
	UserEmail         string
	CourseID          int64
	CourseName        string
	CourseURL         string
	CourseDescription string
	CategoryName      string
	Duration          int64
	StartedAt         time.Time
	LoggedAt          time.Time
	ArchivedAt        time.Time
	Reason            string
}
