package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Ctx()); err != nil {
		return err
	}
	fmt.Printf("Initialized dailies storage at: %s\n", ctx.Store.GetConfigPath())

	launched, err := storage.HasLaunched(ctx.Ctx(), ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to read first launch flag: %w", err)
	}
	if !launched {
		PrintWelcome()
	}
	return nil
}

// reset deletes a file-backed database. PostgreSQL databases are left to the
// administrator.
func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL; drop the dailies schema manually")
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// PrintWelcome prints the getting-started hint shown on first launch.
func PrintWelcome() {
	fmt.Println()
	fmt.Println("Welcome to dailies! Track the small things you do every day.")
	fmt.Println()
	fmt.Println("Get started:")
	fmt.Println("  dailies account signup      create an account")
	fmt.Println("  dailies list builder        choose your daily items")
	fmt.Println("  dailies exercises set ...   pick morning and night exercises")
	fmt.Println("  dailies                     open today's list")
}
