package daily

import (
	"fmt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/dailylist"
	"github.com/julianstephens/dailies/internal/dayview"
	"github.com/julianstephens/dailies/internal/models"
)

// ListShowCmd prints the day's enabled items with their check state
type ListShowCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD). Defaults to today." short:"d"`
}

func (c *ListShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	view, err := dayview.Load(ctx.Ctx(), sources(ctx), user.UID, day)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

// ListBuilderCmd prints every catalog item with its enabled flag and order
type ListBuilderCmd struct{}

func (c *ListBuilderCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	items, err := ctx.Lists.Items(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load daily list: %w", err)
	}

	fmt.Println("Daily items (enable, disable, rename and reorder by ID):")
	fmt.Println()
	for _, item := range items {
		fmt.Printf("  %s %-20s %s\n", cli.Checkbox(item.Enabled), item.ID, item.Title)
	}
	return nil
}

type ListEnableCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ListEnableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.ID, true)
}

type ListDisableCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ListDisableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.ID, false)
}

func setEnabled(ctx *cli.Context, id string, enabled bool) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Lists.SetEnabled(ctx.Ctx(), user.UID, id, enabled); err != nil {
		return err
	}
	ctx.Tracker.Refresh()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("✓ %s %s\n", id, state)
	return nil
}

type ListRenameCmd struct {
	ID    string `arg:"" help:"Item ID."`
	Title string `arg:"" help:"New title."`
}

func (c *ListRenameCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Lists.SetTitle(ctx.Ctx(), user.UID, c.ID, c.Title); err != nil {
		return err
	}
	fmt.Printf("✓ %s renamed to %q\n", c.ID, c.Title)
	return nil
}

type ListReorderCmd struct {
	IDs []string `arg:"" help:"Item IDs in the order they should appear."`
}

func (c *ListReorderCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Lists.Reorder(ctx.Ctx(), user.UID, c.IDs); err != nil {
		return err
	}
	fmt.Printf("✓ Reordered %d items\n", len(c.IDs))
	return nil
}

// ListSetupCmd writes the registration defaults: every catalog item enabled
// in catalog order.
type ListSetupCmd struct {
	Morning []string `help:"Morning exercises." sep:","`
	Night   []string `help:"Night exercises." sep:","`
}

func (c *ListSetupCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	sel := models.ExerciseSelection{Morning: c.Morning, Night: c.Night}
	if err := ctx.Lists.Setup(ctx.Ctx(), user.UID, nil, sel); err != nil {
		return err
	}
	ctx.Tracker.Refresh()
	fmt.Printf("✓ Daily list set up with %d items\n", len(dailylist.Items))
	return nil
}
