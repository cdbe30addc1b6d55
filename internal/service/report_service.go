package service

import (
	"context"
	"errors"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// History is a user's completed work with ratings and a grand total
type History struct {
	User         *models.User
	Entries      []models.HistoryEntry
	TotalSeconds int64
}

// Total renders the grand total as H:MM:SS
func (h *History) Total() string {
	return models.FormatElapsed(h.TotalSeconds)
}

// ReportService builds read-only aggregates over users and logs
type ReportService struct {
	base
}

// NewReportService creates a new report service
func NewReportService(deps Deps) *ReportService {
	return &ReportService{base: newBase(deps, "reports")}
}

// Leaderboard ranks every user by total logged time, highest first; users
// without logs appear with zero
func (s *ReportService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.store.Logs().Leaderboard(ctx)
	if err != nil {
		return nil, s.storageFailure("leaderboard", err)
	}
	return entries, nil
}

// UserHistory returns the subject's log entries by start time. Only admins
// and the subject may read it.
func (s *ReportService) UserHistory(ctx context.Context, actor *models.User, subjectIdentity string) (*History, error) {
	subject, err := s.userByIdentity(ctx, s.store, subjectIdentity)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, subject.ID); err != nil {
		return nil, err
	}

	logs, err := s.store.Logs().ListByUser(ctx, subject.ID)
	if err != nil {
		return nil, s.storageFailure("user history", err)
	}
	ratings, err := s.store.Ratings().ListByUser(ctx, subject.ID)
	if err != nil {
		return nil, s.storageFailure("user history", err)
	}
	rated := make(map[int64]int, len(ratings))
	for _, r := range ratings {
		rated[r.CourseID] = r.Value
	}

	names := make(map[int64]string)
	history := &History{User: subject, Entries: make([]models.HistoryEntry, 0, len(logs))}
	for _, l := range logs {
		name, ok := names[l.CourseID]
		if !ok {
			course, err := s.store.Catalog().GetCourseByID(ctx, l.CourseID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, s.storageFailure("user history", err)
			}
			if course != nil {
				name = course.Name
			}
			names[l.CourseID] = name
		}

		entry := models.HistoryEntry{
			LogID:      l.ID,
			CourseID:   l.CourseID,
			CourseName: name,
			Duration:   l.Duration,
			StartedAt:  l.StartedAt,
			LoggedAt:   l.LoggedAt,
		}
		if v, ok := rated[l.CourseID]; ok {
			entry.Rating = &v
		}
		history.Entries = append(history.Entries, entry)
		history.TotalSeconds += l.Duration
	}
	return history, nil
}

// UserStats returns the subject's total logged seconds under the same rule
// as UserHistory
func (s *ReportService) UserStats(ctx context.Context, actor *models.User, subjectIdentity string) (int64, error) {
	subject, err := s.userByIdentity(ctx, s.store, subjectIdentity)
	if err != nil {
		return 0, err
	}
	if err := requireSelfOrAdmin(actor, subject.ID); err != nil {
		return 0, err
	}
	total, err := s.store.Logs().TotalForUser(ctx, subject.ID)
	if err != nil {
		return 0, s.storageFailure("user stats", err)
	}
	return total, nil
}
