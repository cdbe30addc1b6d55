package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// WorkStatus describes a user's current work state
type WorkStatus struct {
	Working        bool
	CourseName     string
	Since          time.Time
	ElapsedSeconds int64
}

// WorkService runs the per-user idle/working state machine
type WorkService struct {
	base
	rights *RightsService
}

// NewWorkService creates a new work service
func NewWorkService(deps Deps, rights *RightsService) *WorkService {
	return &WorkService{base: newBase(deps, "work"), rights: rights}
}

// StartWork opens a work session on a course the user has rights to.
// The store's uniqueness on the user rejects a second concurrent session.
func (s *WorkService) StartWork(ctx context.Context, actor *models.User, courseName string) (*models.WorkSession, error) {
	if actor == nil {
		return nil, ErrUnknownUser
	}
	user, err := s.store.Users().GetByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	course, err := s.courseByName(ctx, s.store, courseName)
	if err != nil {
		return nil, err
	}

	ok, err := s.rights.allowed(ctx, s.store, user, course.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	ws := &models.WorkSession{
		UserID:     user.ID,
		CourseID:   course.ID,
		Since:      s.now(),
		UserName:   user.Name,
		CourseName: course.Name,
	}
	if err := s.store.Work().Start(ctx, ws); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyWorking
		}
		return nil, s.storageFailure("start work", err)
	}

	s.log.Info("work started", zap.Int64("user_id", user.ID), zap.String("course", course.Name))
	return ws, nil
}

// StopWork ends the caller's session and records elapsedSeconds as a log entry
func (s *WorkService) StopWork(ctx context.Context, actor *models.User, elapsedSeconds int64) (*models.LogEntry, error) {
	if actor == nil {
		return nil, ErrUnknownUser
	}
	return s.stop(ctx, actor.ID, &elapsedSeconds)
}

// ForceStop ends the target's session using the duration last stored by
// UpdateTime. Only admins and the target may do this.
func (s *WorkService) ForceStop(ctx context.Context, actor *models.User, targetIdentity string) (*models.LogEntry, error) {
	target, err := s.userByIdentity(ctx, s.store, targetIdentity)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, target.ID); err != nil {
		return nil, err
	}
	entry, err := s.stop(ctx, target.ID, nil)
	if err != nil {
		return nil, err
	}
	if actor.ID != target.ID {
		s.log.Info("work force-stopped", zap.Int64("admin_id", actor.ID), zap.Int64("user_id", target.ID))
	}
	return entry, nil
}

// stop deletes the working row and writes the log entry in one transaction.
// A nil duration means the stored heartbeat value. An idle user is reported
// as not working before the duration is looked at.
func (s *WorkService) stop(ctx context.Context, userID int64, duration *int64) (*models.LogEntry, error) {
	var entry *models.LogEntry
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ws, err := tx.Work().Get(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotWorking
			}
			return err
		}
		if duration != nil && *duration < 0 {
			return ErrInvalidDuration
		}

		deleted, err := tx.Work().Delete(ctx, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotWorking
		}

		seconds := ws.ElapsedSeconds
		if duration != nil {
			seconds = *duration
		}
		entry = &models.LogEntry{
			UserID:    userID,
			CourseID:  ws.CourseID,
			Duration:  seconds,
			StartedAt: ws.Since,
			LoggedAt:  s.now(),
		}
		return tx.Logs().Create(ctx, entry)
	})
	if err != nil {
		return nil, s.storageFailure("stop work", err)
	}

	s.log.Info("work stopped", zap.Int64("user_id", userID), zap.Int64("duration", entry.Duration))
	return entry, nil
}

// UpdateTime stores the live duration of the caller's session without ending it
func (s *WorkService) UpdateTime(ctx context.Context, actor *models.User, seconds int64) error {
	if actor == nil {
		return ErrUnknownUser
	}
	if seconds < 0 {
		return ErrInvalidDuration
	}
	ok, err := s.store.Work().UpdateElapsed(ctx, actor.ID, seconds)
	if err != nil {
		return s.storageFailure("update time", err)
	}
	if !ok {
		return ErrNotWorking
	}
	return nil
}

// IsWorking reports the user's current work state
func (s *WorkService) IsWorking(ctx context.Context, userID int64) (*WorkStatus, error) {
	ws, err := s.store.Work().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &WorkStatus{}, nil
		}
		return nil, s.storageFailure("work status", err)
	}
	return &WorkStatus{
		Working:        true,
		CourseName:     ws.CourseName,
		Since:          ws.Since,
		ElapsedSeconds: ws.ElapsedSeconds,
	}, nil
}

// ListActiveWorkers returns every open work session
func (s *WorkService) ListActiveWorkers(ctx context.Context, actor *models.User) ([]models.WorkSession, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	sessions, err := s.store.Work().List(ctx)
	if err != nil {
		return nil, s.storageFailure("list workers", err)
	}
	return sessions, nil
}
