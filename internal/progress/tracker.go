package progress

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/events"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
)

// StatusWriter persists objective flags
type StatusWriter interface {
	SetStatus(ctx context.Context, userID, objectiveID, day string, checked bool) error
}

// ExerciseWriter persists sub-exercise flags
type ExerciseWriter interface {
	SetExerciseChecked(ctx context.Context, userID string, period constants.Period, name, day string, checked bool) error
}

// ListSource loads a user's daily list configuration
type ListSource interface {
	Enabled(ctx context.Context, userID string) ([]models.DailyItemConfig, error)
	ExerciseSelection(ctx context.Context, userID string) (models.ExerciseSelection, error)
}

// WriteResult is the outcome of a background toggle
type WriteResult struct {
	// Checked is the value that was written
	Checked bool
	Err     error
}

// Failed reports whether the write did not persist. Callers revert their
// optimistic state only in this case.
func (r WriteResult) Failed() bool {
	return r.Err != nil
}

// PendingWrite is returned by a toggle before the write completes
type PendingWrite struct {
	done   chan struct{}
	result WriteResult
}

// Done is closed once the write has finished.
func (p *PendingWrite) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the write finishes and returns its result.
func (p *PendingWrite) Wait() WriteResult {
	<-p.done
	return p.result
}

// Tracker is the entry point views use: cached reads plus writes that
// invalidate and notify.
type Tracker struct {
	aggregator *Aggregator
	cache      *Cache
	bus        *events.Bus
	statuses   StatusWriter
	exercises  ExerciseWriter
	lists      ListSource
	flight     singleflight.Group
}

// Deps wires a Tracker
type Deps struct {
	Aggregator *Aggregator
	Cache      *Cache
	Bus        *events.Bus
	Statuses   StatusWriter
	Exercises  ExerciseWriter
	Lists      ListSource
}

func NewTracker(deps Deps) *Tracker {
	if deps.Cache == nil {
		deps.Cache = NewCache(constants.ProgressCacheTTL)
	}
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}
	return &Tracker{
		aggregator: deps.Aggregator,
		cache:      deps.Cache,
		bus:        deps.Bus,
		statuses:   deps.Statuses,
		exercises:  deps.Exercises,
		lists:      deps.Lists,
	}
}

// Bus returns the bus the tracker publishes on.
func (t *Tracker) Bus() *events.Bus {
	return t.bus
}

// Cache returns the tracker's progress cache.
func (t *Tracker) Cache() *Cache {
	return t.cache
}

// Progress returns the cached value for (user, day) or computes and caches
// it. Concurrent misses for the same key share one computation.
func (t *Tracker) Progress(ctx context.Context, userID, day string, items []models.DailyItemConfig, selection models.ExerciseSelection) models.Progress {
	if p, ok := t.cache.Get(userID, day); ok {
		return p
	}

	version := t.cache.Version(userID, day)
	key := fmt.Sprintf("%s\x00%s\x00%d", userID, day, version)
	v, _, _ := t.flight.Do(key, func() (any, error) {
		p := t.aggregator.Compute(ctx, userID, day, items, selection)
		t.cache.PutVersion(userID, day, p, version)
		return p, nil
	})
	return v.(models.Progress)
}

// DayProgress loads the user's enabled items and exercise selection and
// returns the day's progress.
func (t *Tracker) DayProgress(ctx context.Context, userID, day string) (models.Progress, error) {
	if p, ok := t.cache.Get(userID, day); ok {
		return p, nil
	}

	items, err := t.lists.Enabled(ctx, userID)
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to load daily list: %w", err)
	}
	selection, err := t.lists.ExerciseSelection(ctx, userID)
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to load exercise selection: %w", err)
	}
	return t.Progress(ctx, userID, day, items, selection), nil
}

// ToggleObjective writes an objective flag in the background.
func (t *Tracker) ToggleObjective(ctx context.Context, userID, objectiveID, day string, checked bool) *PendingWrite {
	return t.write(userID, day, checked, func() error {
		return t.statuses.SetStatus(ctx, userID, objectiveID, day, checked)
	})
}

// ToggleExercise writes a sub-exercise flag in the background.
func (t *Tracker) ToggleExercise(ctx context.Context, userID string, period constants.Period, name, day string, checked bool) *PendingWrite {
	return t.write(userID, day, checked, func() error {
		return t.exercises.SetExerciseChecked(ctx, userID, period, name, day, checked)
	})
}

// write runs fn and, only when it succeeds, invalidates the day and then
// publishes.
func (t *Tracker) write(userID, day string, checked bool, fn func() error) *PendingWrite {
	pending := &PendingWrite{done: make(chan struct{})}
	go func() {
		defer close(pending.done)
		err := fn()
		pending.result = WriteResult{Checked: checked, Err: err}
		if err != nil {
			logger.Warn("Failed to save check", "day", day, "checked", checked, "error", err)
			return
		}
		t.NotifyChanged(userID, day)
	}()
	return pending
}

// NotifyChanged invalidates one day and tells every subscriber.
func (t *Tracker) NotifyChanged(userID, day string) {
	t.cache.Invalidate(userID, day)
	t.bus.Publish()
}

// Refresh drops every cached day and tells every subscriber.
func (t *Tracker) Refresh() {
	t.cache.InvalidateAll()
	t.bus.Publish()
}
