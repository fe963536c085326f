// Package exercises resolves exercise groups: a period bundling zero or more
// named sub-exercises, complete only when every sub-exercise is checked.
package exercises

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dailies/internal/constants"
)

// StatusStore is the part of the objective status store the resolver needs
type StatusStore interface {
	Lookup(ctx context.Context, userID, objectiveID, day string) (bool, error)
	SetStatus(ctx context.Context, userID, objectiveID, day string, checked bool) error
}

// ObjectiveID derives the status id of a sub-exercise: exercise-<period>-<name>
func ObjectiveID(period constants.Period, name string) string {
	return fmt.Sprintf("%s%s-%s", constants.ExerciseObjectivePrefix, period, name)
}

// Resolver answers group status questions over a StatusStore
type Resolver struct {
	statuses StatusStore
}

func NewResolver(statuses StatusStore) *Resolver {
	return &Resolver{statuses: statuses}
}

// GroupStatus reports whether every named exercise is checked on day. An
// empty group is complete. Lookups run concurrently and all of them finish
// before returning; any failure makes the group incomplete and is returned.
func (r *Resolver) GroupStatus(ctx context.Context, userID string, period constants.Period, names []string, day string) (bool, error) {
	if len(names) == 0 {
		return true, nil
	}

	results := make([]bool, len(names))
	// A plain Group does not cancel siblings when one lookup fails.
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			checked, err := r.statuses.Lookup(ctx, userID, ObjectiveID(period, name), day)
			if err != nil {
				return fmt.Errorf("exercise %s: %w", name, err)
			}
			results[i] = checked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	for _, checked := range results {
		if !checked {
			return false, nil
		}
	}
	return true, nil
}

// SetExerciseChecked writes one sub-exercise's flag
func (r *Resolver) SetExerciseChecked(ctx context.Context, userID string, period constants.Period, name, day string, checked bool) error {
	return r.statuses.SetStatus(ctx, userID, ObjectiveID(period, name), day, checked)
}
