package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/dailies/internal/backup"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dailylist"
	"github.com/julianstephens/dailies/internal/exercises"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/objectives"
	"github.com/julianstephens/dailies/internal/progress"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/sqlite"
	"github.com/julianstephens/dailies/internal/utils"
)

// Context carries the services every command runs against
type Context struct {
	Store      storage.Provider
	Identity   identity.Provider
	Lists      *dailylist.Repository
	Hobbies    *hobbies.Service
	Objectives *objectives.Store
	Exercises  *exercises.Resolver
	Tracker    *progress.Tracker

	ctx context.Context
}

// NewContext wires the domain services over one store.
func NewContext(ctx context.Context, store storage.Provider, id identity.Provider) *Context {
	statuses := objectives.New(store)
	resolver := exercises.NewResolver(statuses)
	hobbySvc := hobbies.NewService(store)
	lists := dailylist.NewRepository(store)

	return &Context{
		Store:      store,
		Identity:   id,
		Lists:      lists,
		Hobbies:    hobbySvc,
		Objectives: statuses,
		Exercises:  resolver,
		Tracker: progress.NewTracker(progress.Deps{
			Aggregator: progress.NewAggregator(statuses, resolver, hobbySvc),
			Statuses:   statuses,
			Exercises:  resolver,
			Lists:      lists,
		}),
		ctx: ctx,
	}
}

// Ctx returns the context commands should pass to blocking calls.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// User returns the signed-in user or an error telling how to sign in.
func (c *Context) User() (identity.User, error) {
	user, err := c.Identity.CurrentUser(c.Ctx())
	if errors.Is(err, identity.ErrNotSignedIn) {
		return identity.User{}, errors.New("not signed in. Run 'dailies account signin' or 'dailies account signup' first")
	}
	if err != nil {
		return identity.User{}, errors.New(identity.Message(err))
	}
	return user, nil
}

// Location returns the timezone day keys are computed in.
func (c *Context) Location() (*time.Location, error) {
	settings, err := storage.LoadSettings(c.Ctx(), c.Store)
	if err != nil {
		return nil, err
	}
	return utils.LoadLocation(settings.Timezone)
}

// Day resolves a --date flag (YYYY-MM-DD, empty for today) to a day key.
func (c *Context) Day(input string) (string, error) {
	loc, err := c.Location()
	if err != nil {
		return "", err
	}
	return utils.ResolveDay(input, loc)
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(c.Ctx()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ConfigDir is the per-user directory for logs and lockfiles
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}

const barWidth = 20

// FormatProgress renders "completed/total [bar] pct", with a party popper
// once everything is done.
func FormatProgress(p models.Progress) string {
	filled := int(p.Ratio() * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	out := fmt.Sprintf("%d/%d %s %3.0f%%", p.Completed, p.Total, bar, p.Ratio()*100)
	if p.AllComplete() {
		out += " 🎉"
	}
	return out
}

// Checkbox renders a checked flag
func Checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
