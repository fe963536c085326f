// Package objectives reads and writes the per-day checked flag of a single
// objective.
package objectives

import (
	"context"
	"time"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage"
)

// Store is the objective status store
type Store struct {
	docs storage.Provider
	now  func() time.Time
}

func New(docs storage.Provider) *Store {
	return &Store{docs: docs, now: time.Now}
}

// SetClock replaces the clock used for updatedAt and createdAt stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// UserPath is users/{uid}
func UserPath(userID string) storage.Path {
	return storage.Doc(constants.CollectionUsers, userID)
}

// DayPath is users/{uid}/dailyChecks/{day}
func DayPath(userID, day string) storage.Path {
	return UserPath(userID).Child(constants.CollectionDailyCheck, day)
}

// StatusPath is users/{uid}/dailyChecks/{day}/objectives/{objectiveID}
func StatusPath(userID, objectiveID, day string) storage.Path {
	return DayPath(userID, day).Child(constants.CollectionObjectives, objectiveID)
}

// Lookup returns the stored flag. A missing record is (false, nil); only
// storage failures are reported as errors.
func (s *Store) Lookup(ctx context.Context, userID, objectiveID, day string) (bool, error) {
	doc, err := s.docs.Get(ctx, StatusPath(userID, objectiveID, day))
	if storage.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var status models.ObjectiveStatus
	if err := doc.DataTo(&status); err != nil {
		return false, storage.Wrap(storage.OpRead, doc.Path, err)
	}
	return status.Checked, nil
}

// GetStatus is Lookup with failures logged and replaced by false.
func (s *Store) GetStatus(ctx context.Context, userID, objectiveID, day string) bool {
	checked, err := s.Lookup(ctx, userID, objectiveID, day)
	if err != nil {
		logger.Warn("Failed to read objective status", "objective", objectiveID, "day", day, "error", err)
		return false
	}
	return checked
}

// SetStatus creates the user and day containers when they are missing, then
// writes the objective's flag.
func (s *Store) SetStatus(ctx context.Context, userID, objectiveID, day string, checked bool) error {
	now := s.now()
	parents := storage.NewBatch().
		Set(UserPath(userID), map[string]any{"createdAt": now}, storage.CreateOnly()).
		Set(DayPath(userID, day), map[string]any{"createdAt": now}, storage.CreateOnly())
	if err := s.docs.Commit(ctx, parents); err != nil {
		return storage.Wrap(storage.OpWrite, DayPath(userID, day), err)
	}

	fields, err := storage.Fields(models.ObjectiveStatus{Checked: checked, UpdatedAt: now})
	if err != nil {
		return storage.Wrap(storage.OpWrite, StatusPath(userID, objectiveID, day), err)
	}
	if err := s.docs.Set(ctx, StatusPath(userID, objectiveID, day), fields); err != nil {
		return storage.Wrap(storage.OpWrite, StatusPath(userID, objectiveID, day), err)
	}
	logger.Debug("Objective status saved", "objective", objectiveID, "day", day, "checked", checked)
	return nil
}
