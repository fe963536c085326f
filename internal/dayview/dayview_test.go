package dayview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dailylist"
	"github.com/julianstephens/dailies/internal/exercises"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/objectives"
	"github.com/julianstephens/dailies/internal/progress"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
)

const day = "2024-03-05"

type fixture struct {
	docs     *memory.Store
	lists    *dailylist.Repository
	statuses *objectives.Store
	hobbies  *hobbies.Service
	src      Sources
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := memory.New()
	f := &fixture{
		docs:     docs,
		lists:    dailylist.NewRepository(docs),
		statuses: objectives.New(docs),
		hobbies:  hobbies.NewService(docs),
	}
	resolver := exercises.NewResolver(f.statuses)
	f.src = Sources{
		Lists:    f.lists,
		Statuses: f.statuses,
		Hobbies:  f.hobbies,
		Tracker: progress.NewTracker(progress.Deps{
			Aggregator: progress.NewAggregator(f.statuses, resolver, f.hobbies),
			Statuses:   f.statuses,
			Exercises:  resolver,
			Lists:      f.lists,
		}),
	}

	items := []models.DailyItemConfig{
		{ID: "exercises-morning", Title: "Morning Exercises", Enabled: true},
		{ID: "read", Title: "Read", Enabled: true},
		{ID: "hobbies-evening", Title: "Evening Hobby Time", Enabled: true},
	}
	sel := models.ExerciseSelection{Morning: []string{"pushups", "squats"}}
	if err := f.lists.Setup(context.Background(), "u1", items, sel); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	return f
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.statuses.SetStatus(ctx, "u1", "read", day, true); err != nil {
		t.Fatal(err)
	}
	if err := f.statuses.SetStatus(ctx, "u1", exercises.ObjectiveID(constants.PeriodMorning, "pushups"), day, true); err != nil {
		t.Fatal(err)
	}

	view, err := Load(ctx, f.src, "u1", day)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("Load() rows = %d, want 3", len(view.Rows))
	}

	group := view.Rows[view.Find("exercises-morning")]
	if group.Kind != progress.KindExerciseGroup || group.Checked {
		t.Errorf("group = %+v, want an unchecked exercise group", group)
	}
	if len(group.Exercises) != 2 || !group.Exercises[0].Checked || group.Exercises[1].Checked {
		t.Errorf("exercises = %+v", group.Exercises)
	}
	if group.Exercises[0].Title != "Push-ups" {
		t.Errorf("exercise title = %q, want catalog title", group.Exercises[0].Title)
	}
	if !view.Rows[view.Find("read")].Checked {
		t.Error("read unchecked")
	}
	if view.Rows[view.Find("hobbies-evening")].Checked {
		t.Error("hobby card checked with no entries")
	}
	if view.Progress != (models.Progress{Completed: 1, Total: 3}) {
		t.Errorf("Progress = %+v, want 1/3", view.Progress)
	}
	if view.Find("missing") != -1 {
		t.Error("Find() matched a missing item")
	}
}

func TestLoadAllComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"pushups", "squats"} {
		if err := f.statuses.SetStatus(ctx, "u1", exercises.ObjectiveID(constants.PeriodMorning, name), day, true); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.statuses.SetStatus(ctx, "u1", "read", day, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.hobbies.Add(ctx, "u1", day, constants.PeriodEvening, "chess", 20); err != nil {
		t.Fatal(err)
	}

	view, err := Load(ctx, f.src, "u1", day)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range view.Rows {
		if !row.Checked {
			t.Errorf("%s unchecked", row.Item.ID)
		}
	}
	if !view.Progress.AllComplete() {
		t.Errorf("Progress = %+v, want all complete", view.Progress)
	}
}

func TestLoadRowFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := f.statuses.SetStatus(ctx, "u1", "read", day, true); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("offline")
	f.docs.ReadFault = func(p storage.Path) error {
		if strings.Contains(p.String(), "/objectives/") {
			return boom
		}
		return nil
	}

	view, err := Load(ctx, f.src, "u1", day)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	read := view.Rows[view.Find("read")]
	if read.Checked || !errors.Is(read.Err, boom) {
		t.Errorf("read = checked %v err %v, want unchecked with the failure", read.Checked, read.Err)
	}
}

func TestLoadListFailure(t *testing.T) {
	f := newFixture(t)
	f.docs.ReadFault = func(storage.Path) error { return errors.New("offline") }
	if _, err := Load(context.Background(), f.src, "u1", day); err == nil {
		t.Error("Load() succeeded without a daily list")
	}
}
