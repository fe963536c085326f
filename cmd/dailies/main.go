package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/cli/account"
	"github.com/julianstephens/dailies/internal/cli/backups"
	"github.com/julianstephens/dailies/internal/cli/daily"
	"github.com/julianstephens/dailies/internal/cli/hobbies"
	"github.com/julianstephens/dailies/internal/cli/settings"
	"github.com/julianstephens/dailies/internal/cli/system"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/errors"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/keyring"
	"github.com/julianstephens/dailies/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path (.db for SQLite, .json for a JSON file) or PostgreSQL connection string. Passwords must NOT be embedded here; use ${conn_env} or the OS keyring." env:"DAILIES_CONFIG" default:"${default_config}"`
	Verbose bool   `name:"debug" help:"Log debug output to stderr." env:"DAILIES_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize dailies storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive day view." default:"1"`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks on storage and data."`
	Debug   system.DebugCmd   `cmd:"" help:"Dump stored documents for troubleshooting."`

	Account struct {
		Signup        account.SignupCmd        `cmd:"" help:"Create an account."`
		Signin        account.SigninCmd        `cmd:"" help:"Sign in."`
		Signout       account.SignoutCmd       `cmd:"" help:"Sign out."`
		Whoami        account.WhoamiCmd        `cmd:"" help:"Show the signed-in user."`
		Verify        account.VerifyCmd        `cmd:"" help:"Verify your email address, or resend the code."`
		Refresh       account.RefreshCmd       `cmd:"" help:"Reload the signed-in user."`
		ResetPassword account.ResetPasswordCmd `cmd:"" name:"reset-password" help:"Request or confirm a password reset."`
		Delete        account.DeleteCmd        `cmd:"" help:"Delete your account and all its data."`
	} `cmd:"" help:"Manage your account."`

	List struct {
		Show    daily.ListShowCmd    `cmd:"" help:"Show the day's list." default:"1"`
		Builder daily.ListBuilderCmd `cmd:"" help:"Show every item you can add."`
		Enable  daily.ListEnableCmd  `cmd:"" help:"Add an item to your list."`
		Disable daily.ListDisableCmd `cmd:"" help:"Remove an item from your list."`
		Rename  daily.ListRenameCmd  `cmd:"" help:"Rename an item."`
		Reorder daily.ListReorderCmd `cmd:"" help:"Reorder your list."`
		Setup   daily.ListSetupCmd   `cmd:"" help:"Reset your list to the defaults."`
	} `cmd:"" help:"Manage your daily list."`

	Exercises struct {
		Show  daily.ExercisesShowCmd  `cmd:"" help:"Show your exercise groups." default:"1"`
		Set   daily.ExercisesSetCmd   `cmd:"" help:"Choose the exercises for a group."`
		Check daily.ExercisesCheckCmd `cmd:"" help:"Check off an exercise."`
	} `cmd:"" help:"Manage morning and night exercises."`

	Check    daily.CheckCmd    `cmd:"" help:"Check off an item."`
	Progress daily.ProgressCmd `cmd:"" help:"Show daily progress."`

	Hobbies struct {
		Select hobbies.SelectCmd `cmd:"" help:"Choose your hobbies."`
		Show   hobbies.ShowCmd   `cmd:"" help:"Show the hobby catalog." default:"1"`
		Log    struct {
			Show   hobbies.LogShowCmd   `cmd:"" help:"Show logged time." default:"1"`
			Add    hobbies.LogAddCmd    `cmd:"" help:"Log time on a hobby."`
			Edit   hobbies.LogEditCmd   `cmd:"" help:"Change the minutes of an entry."`
			Remove hobbies.LogRemoveCmd `cmd:"" help:"Remove an entry."`
		} `cmd:"" help:"Log hobby time."`
	} `cmd:"" help:"Manage hobbies."`

	Settings struct {
		Show settings.ShowCmd `cmd:"" help:"Show settings." default:"1"`
		Set  settings.SetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the connection string in the OS keyring."`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track your daily objectives, exercises and hobbies."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"conn_env":       cli.ConnectionEnv,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: cli.ConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	config := cli.ResolveConfig(CLI.Config)
	store, err := cli.OpenStore(config, config == CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := identity.NewLocal(store, keyring.NewSessionStore(), identity.WriterMailer{W: os.Stdout})
	appCtx := cli.NewContext(ctx, store, id)

	// Init and the keyring commands run without an open store.
	if needsStore(kctx.Command()) {
		if err := store.Load(ctx); err != nil {
			errors.Fatal(err)
		}
	}

	err = kctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}

func needsStore(command string) bool {
	return command != "init" && !strings.HasPrefix(command, "keyring ")
}
