package hobbies

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage/memory"
)

const day = "2024-03-01"

func setup(t *testing.T) (*cli.Context, string) {
	t.Helper()
	store := memory.New()
	id := identity.NewLocal(store, &identity.MemorySessionStore{}, nil)
	id.SetCost(bcrypt.MinCost)
	ctx := cli.NewContext(context.Background(), store, id)

	user, err := id.SignUp(ctx.Ctx(), "ada@example.com", "Secret1", "Ada")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if err := ctx.Lists.Setup(ctx.Ctx(), user.UID, nil, models.ExerciseSelection{}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	return ctx, user.UID
}

func TestSelectAndShow(t *testing.T) {
	ctx, uid := setup(t)

	if err := (&SelectCmd{IDs: []string{"chess", "guitar", "chess"}}).Run(ctx); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	got, err := ctx.Hobbies.Selected(ctx.Ctx(), uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "chess" || got[1] != "guitar" {
		t.Errorf("Selected() = %v, want [chess guitar]", got)
	}

	err = (&SelectCmd{IDs: []string{"skydiving"}}).Run(ctx)
	if !errors.Is(err, hobbies.ErrUnknownHobby) {
		t.Errorf("select unknown error = %v, want ErrUnknownHobby", err)
	}
	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
}

func TestLogLifecycle(t *testing.T) {
	ctx, uid := setup(t)

	before, err := ctx.Tracker.DayProgress(ctx.Ctx(), uid, day)
	if err != nil {
		t.Fatal(err)
	}

	if err := (&LogAddCmd{Period: "evening", Hobby: "chess", Minutes: 30, Date: day}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&LogAddCmd{Period: "evening", Hobby: "guitar", Minutes: 15, Date: day}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	after, err := ctx.Tracker.DayProgress(ctx.Ctx(), uid, day)
	if err != nil {
		t.Fatal(err)
	}
	if after.Completed != before.Completed+1 {
		t.Errorf("completed = %d after logging, want %d", after.Completed, before.Completed+1)
	}

	if err := (&LogEditCmd{Period: "evening", Entry: 2, Minutes: 45, Date: day}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if err := (&LogRemoveCmd{Period: "evening", Entry: 1, Date: day}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	log, err := ctx.Hobbies.Log(ctx.Ctx(), uid, day, constants.PeriodEvening)
	if err != nil {
		t.Fatal(err)
	}
	if len(log.Entries) != 1 || log.Entries[0].Hobby != "guitar" || log.Entries[0].Minutes != 45 {
		t.Errorf("entries = %+v, want [guitar 45]", log.Entries)
	}

	if err := (&LogRemoveCmd{Period: "evening", Entry: 1, Date: day}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	final, err := ctx.Tracker.DayProgress(ctx.Ctx(), uid, day)
	if err != nil {
		t.Fatal(err)
	}
	if final.Completed != before.Completed {
		t.Errorf("completed = %d after removing every entry, want %d", final.Completed, before.Completed)
	}
	if err := (&LogShowCmd{Date: day}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
}

func TestLogErrors(t *testing.T) {
	ctx, _ := setup(t)

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
		want error
	}{
		{"unknown hobby", &LogAddCmd{Period: "evening", Hobby: "skydiving", Minutes: 5, Date: day}, hobbies.ErrUnknownHobby},
		{"zero minutes", &LogAddCmd{Period: "evening", Hobby: "chess", Minutes: 0, Date: day}, hobbies.ErrInvalidMinutes},
		{"bad period", &LogAddCmd{Period: "night", Hobby: "chess", Minutes: 5, Date: day}, hobbies.ErrInvalidPeriod},
		{"missing entry", &LogEditCmd{Period: "evening", Entry: 3, Minutes: 5, Date: day}, hobbies.ErrNoEntry},
		{"negative minutes", &LogEditCmd{Period: "evening", Entry: 1, Minutes: -1, Date: day}, hobbies.ErrInvalidMinutes},
		{"remove missing", &LogRemoveCmd{Period: "morning", Entry: 1, Date: day}, hobbies.ErrNoEntry},
		{"show bad period", &LogShowCmd{Period: "noon", Date: day}, hobbies.ErrInvalidPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}
