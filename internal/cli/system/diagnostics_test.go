package system

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
	"github.com/julianstephens/dailies/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	gokeyring.MockInit()
	ctx := context.Background()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	id := identity.NewLocal(store, &identity.MemorySessionStore{}, nil)
	id.SetCost(bcrypt.MinCost)
	user, err := id.SignUp(ctx, "ada@example.com", "Secret1", "Ada")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	appCtx := cli.NewContext(ctx, store, id)
	sel := models.ExerciseSelection{Morning: []string{"pushups"}}
	if err := appCtx.Lists.Setup(ctx, user.UID, nil, sel); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	return appCtx, user.UID
}

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		out, _ := io.ReadAll(r)
		done <- string(out)
	}()
	runErr := fn()
	w.Close()
	return <-done, runErr
}

func TestDoctorHealthy(t *testing.T) {
	ctx, _ := setupTestDB(t)
	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("doctor failed on a healthy store: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Backups present: WARNING") {
		t.Errorf("missing backup warning:\n%s", out)
	}
}

func TestDoctorFindsProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, ctx *cli.Context, uid string)
		want   string
	}{
		{
			name: "unknown exercise",
			mutate: func(t *testing.T, ctx *cli.Context, uid string) {
				path := storage.Doc("users", uid, "dailyList", "exercises")
				if err := ctx.Store.Set(ctx.Ctx(), path, map[string]any{"morning": []string{"levitation"}}); err != nil {
					t.Fatal(err)
				}
			},
			want: "Data validation: FAIL",
		},
		{
			name: "unknown hobby",
			mutate: func(t *testing.T, ctx *cli.Context, uid string) {
				if err := ctx.Store.Set(ctx.Ctx(), storage.Doc("users", uid), map[string]any{"hobbies": []string{"skydiving"}}, storage.Merge()); err != nil {
					t.Fatal(err)
				}
			},
			want: "Data validation: FAIL",
		},
		{
			name: "bad timezone",
			mutate: func(t *testing.T, ctx *cli.Context, uid string) {
				if err := ctx.Store.SaveSetting(ctx.Ctx(), "timezone", "Mars/Olympus"); err != nil {
					t.Fatal(err)
				}
			},
			want: "Clock/timezone: FAIL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, uid := setupTestDB(t)
			tt.mutate(t, ctx, uid)
			out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
			if err == nil {
				t.Fatalf("doctor passed:\n%s", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestDoctorSkipsForMemoryStore(t *testing.T) {
	gokeyring.MockInit()
	store := memory.New()
	ctx := cli.NewContext(context.Background(), store, identity.NewLocal(store, &identity.MemorySessionStore{}, nil))
	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Schema version: SKIPPED", "Backups present: SKIPPED", "Data validation: SKIPPED"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugDumpDay(t *testing.T) {
	ctx, uid := setupTestDB(t)
	if err := ctx.Objectives.SetStatus(ctx.Ctx(), uid, "read", "2024-03-01", true); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error { return (&DebugDumpDayCmd{Date: "2024-03-01"}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-day failed: %v", err)
	}
	var got dumpedDay
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Day != "2024-03-01" || got.Progress.Completed != 1 {
		t.Errorf("dumped day = %s with %d completed, want 2024-03-01 with 1", got.Day, got.Progress.Completed)
	}
	for _, item := range got.Items {
		if item.ID == "exercises-morning" && (item.Kind != "exercise-group" || len(item.Exercises) != 1) {
			t.Errorf("exercise group dumped as %+v", item)
		}
	}
}

func TestDebugDumpDoc(t *testing.T) {
	ctx, uid := setupTestDB(t)
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"document", "users/" + uid + "/dailyList/read", false},
		{"collection", "users/" + uid + "/dailyList", false},
		{"missing", "users/" + uid + "/dailyList/juggling", true},
		{"empty", "/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := captureStdout(t, func() error { return (&DebugDumpDocCmd{Path: tt.path}).Run(ctx) })
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("db-path failed: %v", err)
	}
}
