package daily

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/progress"
)

// CheckCmd checks or unchecks one plain item
type CheckCmd struct {
	ID   string `arg:"" help:"Item ID."`
	Date string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
	Off  bool   `help:"Uncheck instead of check."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}

	switch kind, _ := progress.Classify(c.ID); kind {
	case progress.KindExerciseGroup:
		return fmt.Errorf("%s is checked through its exercises; use 'dailies exercises check'", c.ID)
	case progress.KindHobbyGroup:
		return fmt.Errorf("%s is checked by logging time; use 'dailies hobbies log add'", c.ID)
	}

	items, err := ctx.Lists.Enabled(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load daily list: %w", err)
	}
	found := false
	for _, item := range items {
		if item.ID == c.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s is not on your daily list", c.ID)
	}

	result := ctx.Tracker.ToggleObjective(ctx.Ctx(), user.UID, c.ID, day, !c.Off).Wait()
	if result.Failed() {
		return errors.Join(errors.New("failed to save check"), result.Err)
	}
	return printResult(ctx, user.UID, day, c.ID, result.Checked)
}

func printResult(ctx *cli.Context, userID, day, id string, checked bool) error {
	state := "unchecked"
	if checked {
		state = "checked"
	}
	p, err := ctx.Tracker.DayProgress(ctx.Ctx(), userID, day)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s %s for %s  %s\n", id, state, day, cli.FormatProgress(p))
	return nil
}
