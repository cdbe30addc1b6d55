package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// Target names what a destructive delete removes: a category or course by
// name, or a user by identity
type Target struct {
	Kind repository.ScopeKind
	Name string
}

func CategoryTarget(name string) Target { return Target{Kind: repository.ScopeCategory, Name: name} }
func CourseTarget(name string) Target   { return Target{Kind: repository.ScopeCourse, Name: name} }
func UserTarget(identity string) Target { return Target{Kind: repository.ScopeUser, Name: identity} }

// ArchiveResult summarizes one archive-and-delete run
type ArchiveResult struct {
	BatchID  string
	Scope    repository.Scope
	Archived int
}

// ArchiveService copies log history into the archive before deleting
// courses, categories or users
type ArchiveService struct {
	base
}

// NewArchiveService creates a new archive service
func NewArchiveService(deps Deps) *ArchiveService {
	return &ArchiveService{base: newBase(deps, "archive")}
}

// ArchiveAndDelete archives every log entry in the target's scope, then
// deletes those entries and the target. It refuses while anyone is working
// in the scope. Either everything happens or nothing does.
func (s *ArchiveService) ArchiveAndDelete(ctx context.Context, actor *models.User, target Target, reason string) (*ArchiveResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = fmt.Sprintf("%s deleted", target.Kind)
	}

	result := &ArchiveResult{BatchID: uuid.NewString()}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		scope, err := s.resolve(ctx, tx, target)
		if err != nil {
			return err
		}
		result.Scope = scope

		active, err := tx.Work().CountInScope(ctx, scope)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveWorker
		}

		archived, err := s.archive(ctx, tx, scope, result.BatchID, reason)
		if err != nil {
			return err
		}
		result.Archived = archived

		deleted, err := tx.Logs().DeleteInScope(ctx, scope)
		if err != nil {
			return err
		}
		if deleted != int64(archived) {
			return fmt.Errorf("archived %d log entries but deleted %d", archived, deleted)
		}

		return s.deleteTarget(ctx, tx, scope)
	})
	if err != nil {
		return nil, s.storageFailure("archive and delete", err)
	}

	s.log.Info("archive batch written",
		zap.String("batch_id", result.BatchID),
		zap.Stringer("scope", scopeLabel(result.Scope)),
		zap.Int("archived", result.Archived),
		zap.Int64("admin_id", actor.ID),
	)
	return result, nil
}

type scopeLabel repository.Scope

func (s scopeLabel) String() string {
	return fmt.Sprintf("%s:%d", s.Kind, s.ID)
}

func (s *ArchiveService) resolve(ctx context.Context, tx repository.Store, target Target) (repository.Scope, error) {
	switch target.Kind {
	case repository.ScopeCategory:
		category, err := s.categoryByName(ctx, tx, target.Name)
		if err != nil {
			return repository.Scope{}, err
		}
		return repository.ByCategory(category.ID), nil
	case repository.ScopeCourse:
		course, err := s.courseByName(ctx, tx, target.Name)
		if err != nil {
			return repository.Scope{}, err
		}
		return repository.ByCourse(course.ID), nil
	case repository.ScopeUser:
		user, err := s.userByIdentity(ctx, tx, target.Name)
		if err != nil {
			return repository.Scope{}, err
		}
		return repository.ByUser(user.ID), nil
	default:
		return repository.Scope{}, invalidInput("unknown delete target")
	}
}

// archive writes one denormalized archive row per log entry in scope
func (s *ArchiveService) archive(ctx context.Context, tx repository.Store, sc repository.Scope, batchID, reason string) (int, error) {
	entries, err := tx.Logs().ListInScope(ctx, sc)
	if err != nil {
		return 0, err
	}

	users := make(map[int64]*models.User)
	courses := make(map[int64]*models.Course)
	archivedAt := s.now()

	for _, e := range entries {
		user, ok := users[e.UserID]
		if !ok {
			if user, err = tx.Users().GetByID(ctx, e.UserID); err != nil {
				return 0, fmt.Errorf("failed to load user %d for archive: %w", e.UserID, err)
			}
			users[e.UserID] = user
		}
		course, ok := courses[e.CourseID]
		if !ok {
			if course, err = tx.Catalog().GetCourseByID(ctx, e.CourseID); err != nil {
				return 0, fmt.Errorf("failed to load course %d for archive: %w", e.CourseID, err)
			}
			courses[e.CourseID] = course
		}

		row := &models.ArchiveEntry{
			BatchID:           batchID,
			LogID:             e.ID,
			UserID:            user.ID,
			UserIdentity:      user.Identity,
			UserName:          user.Name,
			UserEmail:         user.Email,
			CourseID:          course.ID,
			CourseName:        course.Name,
			CourseURL:         course.URL,
			CourseDescription: course.Description,
			CategoryName:      course.CategoryName,
			Duration:          e.Duration,
			StartedAt:         e.StartedAt,
			LoggedAt:          e.LoggedAt,
			ArchivedAt:        archivedAt,
			Reason:            reason,
		}
		if err := tx.Archive().Insert(ctx, row); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// deleteTarget removes the scoped rows once their logs are archived
func (s *ArchiveService) deleteTarget(ctx context.Context, tx repository.Store, sc repository.Scope) error {
	switch sc.Kind {
	case repository.ScopeCourse:
		return deleteCourse(ctx, tx, sc.ID)
	case repository.ScopeCategory:
		courses, err := tx.Catalog().ListCoursesByCategory(ctx, sc.ID)
		if err != nil {
			return err
		}
		for _, c := range courses {
			if err := deleteCourse(ctx, tx, c.ID); err != nil {
				return err
			}
		}
		if err := tx.Rights().DeleteByCategory(ctx, sc.ID); err != nil {
			return err
		}
		return tx.Catalog().DeleteCategory(ctx, sc.ID)
	case repository.ScopeUser:
		if err := tx.Ratings().DeleteByUser(ctx, sc.ID); err != nil {
			return err
		}
		if err := tx.Rights().DeleteByUser(ctx, sc.ID); err != nil {
			return err
		}
		if err := tx.Sessions().DeleteByUser(ctx, sc.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, sc.ID)
	default:
		return fmt.Errorf("unsupported scope %s", sc.Kind)
	}
}

func deleteCourse(ctx context.Context, tx repository.Store, courseID int64) error {
	if err := tx.Ratings().DeleteByCourse(ctx, courseID); err != nil {
		return err
	}
	return tx.Catalog().DeleteCourse(ctx, courseID)
}

// ListArchive returns every archived log entry
func (s *ArchiveService) ListArchive(ctx context.Context, actor *models.User) ([]models.ArchiveEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entries, err := s.store.Archive().List(ctx)
	if err != nil {
		return nil, s.storageFailure("list archive", err)
	}
	return entries, nil
}
