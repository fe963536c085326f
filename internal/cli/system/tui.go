package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/lock"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/tui"
)

type TuiCmd struct {
	Date string `help:"Open on this day (YYYY-MM-DD)." short:"d"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	l, err := lock.Acquire(lockDir(ctx))
	if errors.Is(err, lock.ErrAlreadyRunning) {
		return fmt.Errorf("%w; close the other window first", err)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release TUI lock", "error", err)
		}
	}()

	ctx.PerformAutomaticBackup()

	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	first, err := storage.IsFirstLaunch(ctx.Ctx(), ctx.Store)
	if err != nil {
		logger.Warn("Failed to read first launch flag", "error", err)
	}

	return tui.Run(ctx.Ctx(), tui.Options{
		UserID:      user.UID,
		DisplayName: user.DisplayName,
		Location:    loc,
		StartDay:    c.Date,
		FirstLaunch: first,
		Tracker:     ctx.Tracker,
		Lists:       ctx.Lists,
		Statuses:    ctx.Objectives,
		Hobbies:     ctx.Hobbies,
	})
}

// lockDir keeps the lockfile next to a file database, or in the user config
// directory for PostgreSQL.
func lockDir(ctx *cli.Context) string {
	path := ctx.Store.GetConfigPath()
	if filepath.IsAbs(path) {
		return filepath.Dir(path)
	}
	return cli.ConfigDir()
}
