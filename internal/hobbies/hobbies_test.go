package hobbies

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
)

const day = "2024-03-05"

func TestLogKey(t *testing.T) {
	if got := LogKey(day, constants.PeriodEvening); got != "2024-03-05_evening" {
		t.Errorf("LogKey() = %q", got)
	}
}

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		period constants.Period
		want   bool
	}{
		{constants.PeriodMorning, true},
		{constants.PeriodAfternoon, true},
		{constants.PeriodEvening, true},
		{constants.PeriodNight, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			if got := ValidPeriod(tt.period); got != tt.want {
				t.Errorf("ValidPeriod(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestByCategory(t *testing.T) {
	groups := ByCategory()
	total := 0
	seen := map[string]bool{}
	for _, g := range groups {
		if seen[g.Name] {
			t.Errorf("category %s listed twice", g.Name)
		}
		seen[g.Name] = true
		for _, h := range g.Hobbies {
			if h.Category != g.Name {
				t.Errorf("%s grouped under %s", h.ID, g.Name)
			}
		}
		total += len(g.Hobbies)
	}
	if total != len(Catalog) {
		t.Errorf("grouped %d hobbies, want %d", total, len(Catalog))
	}
	if groups[0].Name != Catalog[0].Category {
		t.Errorf("first category = %s, want %s", groups[0].Name, Catalog[0].Category)
	}
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	s := NewService(docs)

	got, err := s.Selected(ctx, "u1")
	if err != nil || len(got) != 0 {
		t.Fatalf("Selected() on missing user = %v, %v; want empty", got, err)
	}

	if err := docs.Set(ctx, userPath("u1"), map[string]any{"displayName": "Ada"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Select(ctx, "u1", []string{"chess", "guitar", "chess"}); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	got, err = s.Selected(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "chess" || got[1] != "guitar" {
		t.Errorf("Selected() = %v, want [chess guitar]", got)
	}

	doc, err := docs.Get(ctx, userPath("u1"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Fields["displayName"] != "Ada" {
		t.Error("Select() dropped other profile fields")
	}

	if err := s.Select(ctx, "u1", []string{"skydiving"}); !errors.Is(err, ErrUnknownHobby) {
		t.Errorf("Select() error = %v, want ErrUnknownHobby", err)
	}
}

func TestLogLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.New())
	p := constants.PeriodMorning

	has, err := s.HasEntries(ctx, "u1", day, p)
	if err != nil || has {
		t.Fatalf("HasEntries() on empty log = %v, %v", has, err)
	}

	if _, err := s.Add(ctx, "u1", day, p, "guitar", 30); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := s.Add(ctx, "u1", day, p, "chess", 15); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	log, err := s.EditMinutes(ctx, "u1", day, p, 0, 0)
	if err != nil {
		t.Fatalf("EditMinutes() error: %v", err)
	}
	if log.Entries[0].Minutes != 0 || log.TotalMinutes() != 15 {
		t.Errorf("after edit entries = %+v", log.Entries)
	}

	has, err = s.HasEntries(ctx, "u1", day, p)
	if err != nil || !has {
		t.Errorf("HasEntries() = %v, %v; want true", has, err)
	}
	if has, _ := s.HasEntries(ctx, "u1", day, constants.PeriodEvening); has {
		t.Error("entries leaked into another period")
	}

	for i := 0; i < 2; i++ {
		if _, err := s.Remove(ctx, "u1", day, p, 0); err != nil {
			t.Fatalf("Remove() error: %v", err)
		}
	}
	log, err = s.Log(ctx, "u1", day, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.Entries) != 0 {
		t.Errorf("entries after removing all = %+v", log.Entries)
	}
	if has, _ := s.HasEntries(ctx, "u1", day, p); has {
		t.Error("HasEntries() = true after removing every entry")
	}
}

func TestLogValidation(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.New())

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"no hobby", func() error {
			_, err := s.Add(ctx, "u1", day, constants.PeriodMorning, "", 10)
			return err
		}, ErrNoHobby},
		{"zero minutes", func() error {
			_, err := s.Add(ctx, "u1", day, constants.PeriodMorning, "chess", 0)
			return err
		}, ErrInvalidMinutes},
		{"negative edit", func() error {
			_, err := s.EditMinutes(ctx, "u1", day, constants.PeriodMorning, 0, -1)
			return err
		}, ErrInvalidMinutes},
		{"edit out of range", func() error {
			_, err := s.EditMinutes(ctx, "u1", day, constants.PeriodMorning, 3, 10)
			return err
		}, ErrNoEntry},
		{"remove out of range", func() error {
			_, err := s.Remove(ctx, "u1", day, constants.PeriodMorning, -1)
			return err
		}, ErrNoEntry},
		{"night period", func() error {
			_, err := s.Add(ctx, "u1", day, constants.PeriodNight, "chess", 10)
			return err
		}, ErrInvalidPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := s.Log(ctx, "u1", "03/05/2024", constants.PeriodMorning); err == nil {
		t.Error("Log() accepted a malformed day key")
	}
}

func TestReadFailure(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	s := NewService(docs)
	boom := errors.New("offline")
	docs.ReadFault = func(storage.Path) error { return boom }

	if _, err := s.HasEntries(ctx, "u1", day, constants.PeriodMorning); !errors.Is(err, boom) {
		t.Errorf("HasEntries() error = %v, want the read failure", err)
	}
	if _, err := s.Add(ctx, "u1", day, constants.PeriodMorning, "chess", 5); !errors.Is(err, boom) {
		t.Errorf("Add() error = %v, want the read failure", err)
	}
}
