// Package dayview assembles everything shown for one user and day: the
// enabled items with their check state and the day's progress.
package dayview

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dailylist"
	"github.com/julianstephens/dailies/internal/exercises"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/progress"
)

// HobbyLogs reads the hobby time logged for a day and period
type HobbyLogs interface {
	Log(ctx context.Context, userID, day string, period constants.Period) (models.HobbyLog, error)
}

// Sources are the stores a view is read from
type Sources struct {
	Lists    progress.ListSource
	Statuses progress.StatusLookup
	Hobbies  HobbyLogs
	Tracker  *progress.Tracker
}

// Exercise is one sub-exercise of a group
type Exercise struct {
	Name    string
	Title   string
	Checked bool
}

// Row is one enabled item. Err is set when its state could not be read;
// the row then shows as unchecked.
type Row struct {
	Item      models.DailyItemConfig
	Kind      progress.Kind
	Period    constants.Period
	Checked   bool
	Exercises []Exercise
	Hobby     models.HobbyLog
	Err       error
}

// View is a user's list for one day
type View struct {
	Day       string
	Rows      []Row
	Selection models.ExerciseSelection
	Progress  models.Progress
}

// Load reads the list and every row's state. Only a failure to load the list
// itself is returned; row failures are recorded on the row.
func Load(ctx context.Context, src Sources, userID, day string) (View, error) {
	items, err := src.Lists.Enabled(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("failed to load daily list: %w", err)
	}
	selection, err := src.Lists.ExerciseSelection(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("failed to load exercise selection: %w", err)
	}

	view := View{Day: day, Rows: make([]Row, len(items)), Selection: selection}
	var g errgroup.Group
	g.SetLimit(constants.ProgressMaxConcurrency)
	for i, item := range items {
		g.Go(func() error {
			view.Rows[i] = loadRow(ctx, src, userID, day, item, selection)
			return nil
		})
	}
	_ = g.Wait()

	if src.Tracker != nil {
		view.Progress = src.Tracker.Progress(ctx, userID, day, items, selection)
	}
	return view, nil
}

func loadRow(ctx context.Context, src Sources, userID, day string, item models.DailyItemConfig, selection models.ExerciseSelection) Row {
	kind, period := progress.Classify(item.ID)
	row := Row{Item: item, Kind: kind, Period: period}

	switch kind {
	case progress.KindExerciseGroup:
		row.Checked = true
		for _, name := range selection.For(period) {
			ex := Exercise{Name: name, Title: name}
			if c, ok := dailylist.Lookup(dailylist.Exercises, name); ok {
				ex.Title = c.Title
			}
			checked, err := src.Statuses.Lookup(ctx, userID, exercises.ObjectiveID(period, name), day)
			if err != nil && row.Err == nil {
				row.Err = err
			}
			ex.Checked = checked && err == nil
			row.Checked = row.Checked && ex.Checked
			row.Exercises = append(row.Exercises, ex)
		}
		if row.Err != nil {
			row.Checked = false
		}
	case progress.KindHobbyGroup:
		log, err := src.Hobbies.Log(ctx, userID, day, period)
		row.Hobby = log
		row.Err = err
		row.Checked = err == nil && len(log.Entries) > 0
	default:
		checked, err := src.Statuses.Lookup(ctx, userID, item.ID, day)
		row.Err = err
		row.Checked = checked && err == nil
	}

	if row.Err != nil {
		logger.Warn("Failed to read item state", "item", item.ID, "day", day, "error", row.Err)
	}
	return row
}

// Find returns the index of the row for itemID, or -1
func (v View) Find(itemID string) int {
	for i, row := range v.Rows {
		if row.Item.ID == itemID {
			return i
		}
	}
	return -1
}
