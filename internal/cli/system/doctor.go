package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailies/internal/backup"
	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/dailylist"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/keyring"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/sqlite"
	"github.com/julianstephens/dailies/internal/utils"
)

// skipped marks a check that does not apply to this setup
type skipped string

func (s skipped) Error() string {
	return "skipped: " + string(s)
}

type schemaReporter interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name    string
	warning bool
	run     func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Backups present", warning: true, run: checkBackupsPresent},
		{name: "Data validation", run: checkValidation},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "OS keyring", warning: true, run: checkKeyring},
	}

	hasError := false
	reachable := true
	for _, c := range checks {
		var err error
		if !reachable && c.name == "Data validation" {
			err = skipped("database not reachable")
		} else {
			err = c.run(ctx)
		}

		var skip skipped
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &skip):
			fmt.Printf("⊘ %s: SKIPPED (%s)\n", c.name, string(skip))
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(schemaReporter)
	if !ok {
		return skipped("no schema for this backend")
	}
	current, latest, err := reporter.SchemaVersion(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d. Run 'dailies migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return skipped("backups are SQLite only")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'dailies backup create'")
	}
	return nil
}

// checkValidation reads the signed-in user's configuration and checks every
// stored id against the catalogs.
func checkValidation(ctx *cli.Context) error {
	user, err := ctx.Identity.CurrentUser(ctx.Ctx())
	if errors.Is(err, identity.ErrNotSignedIn) {
		return skipped("not signed in")
	}
	if err != nil {
		return errors.New(identity.Message(err))
	}

	if _, err := ctx.Lists.Items(ctx.Ctx(), user.UID); err != nil {
		return fmt.Errorf("failed to load daily list: %w", err)
	}
	sel, err := ctx.Lists.ExerciseSelection(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load exercise selection: %w", err)
	}
	for _, name := range append(append([]string{}, sel.Morning...), sel.Night...) {
		if _, ok := dailylist.Lookup(dailylist.Exercises, name); !ok {
			return fmt.Errorf("%w in exercise selection: %s", dailylist.ErrUnknownExercise, name)
		}
	}

	selected, err := ctx.Hobbies.Selected(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load hobbies: %w", err)
	}
	for _, id := range selected {
		if _, ok := hobbies.Lookup(id); !ok {
			return fmt.Errorf("%w in hobby selection: %s", hobbies.ErrUnknownHobby, id)
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := storage.LoadSettings(ctx.Ctx(), ctx.Store)
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}
	if loc == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; sessions will not persist between runs")
	}
	return nil
}
