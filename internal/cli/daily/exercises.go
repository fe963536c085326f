package daily

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dailylist"
)

func parseGroupPeriod(s string) (constants.Period, error) {
	switch constants.Period(strings.ToLower(s)) {
	case constants.PeriodMorning:
		return constants.PeriodMorning, nil
	case constants.PeriodNight, constants.PeriodAfternoon:
		return constants.PeriodNight, nil
	}
	return "", fmt.Errorf("%w: %s", dailylist.ErrUnknownPeriod, s)
}

// ExercisesShowCmd prints the selected exercises and the catalog
type ExercisesShowCmd struct{}

func (c *ExercisesShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	sel, err := ctx.Lists.ExerciseSelection(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load exercise selection: %w", err)
	}

	fmt.Printf("Morning: %s\n", joinOrNone(sel.Morning))
	fmt.Printf("Night:   %s\n", joinOrNone(sel.Night))
	fmt.Println()
	fmt.Println("Available exercises:")
	for _, ex := range dailylist.Exercises {
		fmt.Printf("  %-15s %s\n", ex.ID, ex.Title)
	}
	return nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

type ExercisesSetCmd struct {
	Period string   `arg:"" help:"morning or night."`
	Names  []string `arg:"" optional:"" help:"Exercise IDs. Omit to clear the group."`
}

func (c *ExercisesSetCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	period, err := parseGroupPeriod(c.Period)
	if err != nil {
		return err
	}
	if err := ctx.Lists.SetGroup(ctx.Ctx(), user.UID, period, c.Names); err != nil {
		return err
	}
	ctx.Tracker.Refresh()
	fmt.Printf("✓ %s exercises: %s\n", period, joinOrNone(c.Names))
	return nil
}

type ExercisesCheckCmd struct {
	Period string `arg:"" help:"morning or night."`
	Name   string `arg:"" help:"Exercise ID."`
	Date   string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
	Off    bool   `help:"Uncheck instead of check."`
}

func (c *ExercisesCheckCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	period, err := parseGroupPeriod(c.Period)
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	sel, err := ctx.Lists.ExerciseSelection(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load exercise selection: %w", err)
	}
	if !slices.Contains(sel.For(period), c.Name) {
		return fmt.Errorf("%s is not one of your %s exercises", c.Name, period)
	}

	result := ctx.Tracker.ToggleExercise(ctx.Ctx(), user.UID, period, c.Name, day, !c.Off).Wait()
	if result.Failed() {
		return errors.Join(errors.New("failed to save check"), result.Err)
	}
	return printResult(ctx, user.UID, day, c.Name, result.Checked)
}
