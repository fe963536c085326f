package exercises

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/objectives"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
)

const day = "2024-03-05"

func TestObjectiveID(t *testing.T) {
	tests := []struct {
		period constants.Period
		name   string
		want   string
	}{
		{constants.PeriodMorning, "pushups", "exercise-morning-pushups"},
		{constants.PeriodNight, "stretch", "exercise-night-stretch"},
	}
	for _, tt := range tests {
		if got := ObjectiveID(tt.period, tt.name); got != tt.want {
			t.Errorf("ObjectiveID(%s, %s) = %q, want %q", tt.period, tt.name, got, tt.want)
		}
	}
}

func TestGroupStatusVacuous(t *testing.T) {
	r := NewResolver(objectives.New(memory.New()))
	for _, names := range [][]string{nil, {}} {
		ok, err := r.GroupStatus(context.Background(), "u1", constants.PeriodNight, names, day)
		if err != nil || !ok {
			t.Errorf("GroupStatus(%v) = %v, %v; want true, nil", names, ok, err)
		}
	}
}

func TestGroupStatusAND(t *testing.T) {
	tests := []struct {
		name    string
		checked map[string]bool
		want    bool
	}{
		{name: "none checked", checked: map[string]bool{}, want: false},
		{name: "only A", checked: map[string]bool{"A": true}, want: false},
		{name: "only B", checked: map[string]bool{"B": true}, want: false},
		{name: "both", checked: map[string]bool{"A": true, "B": true}, want: true},
		{name: "A unchecked again", checked: map[string]bool{"A": false, "B": true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r := NewResolver(objectives.New(memory.New()))
			for name, checked := range tt.checked {
				if err := r.SetExerciseChecked(ctx, "u1", constants.PeriodMorning, name, day, checked); err != nil {
					t.Fatalf("SetExerciseChecked() error: %v", err)
				}
			}
			got, err := r.GroupStatus(ctx, "u1", constants.PeriodMorning, []string{"A", "B"}, day)
			if err != nil {
				t.Fatalf("GroupStatus() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GroupStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupStatusIsPeriodScoped(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(objectives.New(memory.New()))
	if err := r.SetExerciseChecked(ctx, "u1", constants.PeriodMorning, "A", day, true); err != nil {
		t.Fatalf("SetExerciseChecked() error: %v", err)
	}
	got, err := r.GroupStatus(ctx, "u1", constants.PeriodNight, []string{"A"}, day)
	if err != nil || got {
		t.Errorf("night group = %v, %v; want false from a morning check", got, err)
	}
}

func TestGroupStatusFailure(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	r := NewResolver(objectives.New(docs))
	for _, name := range []string{"A", "B"} {
		if err := r.SetExerciseChecked(ctx, "u1", constants.PeriodMorning, name, day, true); err != nil {
			t.Fatalf("SetExerciseChecked() error: %v", err)
		}
	}

	docs.ReadFault = func(p storage.Path) error {
		if p.ID() == ObjectiveID(constants.PeriodMorning, "B") {
			return errors.New("timeout")
		}
		return nil
	}

	got, err := r.GroupStatus(ctx, "u1", constants.PeriodMorning, []string{"A", "B"}, day)
	if err == nil {
		t.Fatal("GroupStatus() swallowed a sub-query failure")
	}
	if got {
		t.Error("GroupStatus() = true despite a failed lookup")
	}
	if !storage.IsRead(err) {
		t.Errorf("error %v lost its storage cause", err)
	}
}
