// Package progress computes, caches and refreshes the completed/total ratio
// of a user's day.
package progress

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
)

// StatusLookup reads a single objective flag
type StatusLookup interface {
	Lookup(ctx context.Context, userID, objectiveID, day string) (bool, error)
}

// GroupResolver answers exercise group status
type GroupResolver interface {
	GroupStatus(ctx context.Context, userID string, period constants.Period, names []string, day string) (bool, error)
}

// HobbyChecker reports whether any hobby time was logged for a period
type HobbyChecker interface {
	HasEntries(ctx context.Context, userID, day string, period constants.Period) (bool, error)
}

// Aggregator folds per-item status into a day's Progress
type Aggregator struct {
	statuses StatusLookup
	groups   GroupResolver
	hobbies  HobbyChecker
	limit    int
}

// NewAggregator creates an aggregator. hobbies may be nil, in which case
// hobby cards are never complete.
func NewAggregator(statuses StatusLookup, groups GroupResolver, hobbies HobbyChecker) *Aggregator {
	return &Aggregator{
		statuses: statuses,
		groups:   groups,
		hobbies:  hobbies,
		limit:    constants.ProgressMaxConcurrency,
	}
}

// Compute counts one unit per item. Items are resolved concurrently and a
// failed item still counts toward the total. It never fails.
func (a *Aggregator) Compute(ctx context.Context, userID, day string, items []models.DailyItemConfig, selection models.ExerciseSelection) models.Progress {
	if len(items) == 0 {
		return models.Progress{}
	}

	done := make([]bool, len(items))
	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, item := range items {
		g.Go(func() error {
			checked, err := a.resolve(ctx, userID, day, item, selection)
			if err != nil {
				logger.Warn("Failed to resolve daily item", "item", item.ID, "day", day, "error", err)
				return nil
			}
			done[i] = checked
			return nil
		})
	}
	_ = g.Wait()

	p := models.Progress{Total: len(items)}
	for _, d := range done {
		if d {
			p.Completed++
		}
	}
	return p
}

func (a *Aggregator) resolve(ctx context.Context, userID, day string, item models.DailyItemConfig, selection models.ExerciseSelection) (bool, error) {
	kind, period := Classify(item.ID)
	switch kind {
	case KindExerciseGroup:
		return a.groups.GroupStatus(ctx, userID, period, selection.For(period), day)
	case KindHobbyGroup:
		if a.hobbies == nil {
			return false, nil
		}
		return a.hobbies.HasEntries(ctx, userID, day, period)
	default:
		return a.statuses.Lookup(ctx, userID, item.ID, day)
	}
}
