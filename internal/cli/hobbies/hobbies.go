// Package hobbies holds the hobby selection and time log commands.
package hobbies

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/models"
)

// SelectCmd replaces the user's hobby list. With no arguments it opens a
// picker over the catalog.
type SelectCmd struct {
	IDs []string `arg:"" optional:"" help:"Hobby IDs."`
}

func (c *SelectCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	ids := c.IDs
	if len(ids) == 0 {
		current, err := ctx.Hobbies.Selected(ctx.Ctx(), user.UID)
		if err != nil {
			return fmt.Errorf("failed to load hobbies: %w", err)
		}
		ids, err = pick(current)
		if err != nil {
			return err
		}
	}

	if err := ctx.Hobbies.Select(ctx.Ctx(), user.UID, ids); err != nil {
		return err
	}
	fmt.Printf("✓ Selected %d hobbies\n", len(ids))
	return nil
}

func pick(current []string) ([]string, error) {
	var options []huh.Option[string]
	for _, cat := range hobbies.ByCategory() {
		for _, h := range cat.Hobbies {
			label := fmt.Sprintf("%s (%s)", h.Title, cat.Name)
			options = append(options, huh.NewOption(label, h.ID).Selected(slices.Contains(current, h.ID)))
		}
	}

	var chosen []string
	err := huh.NewMultiSelect[string]().
		Title("Choose your hobbies").
		Options(options...).
		Value(&chosen).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil, errors.New("cancelled")
	}
	return chosen, err
}

// ShowCmd prints the catalog with the user's selection marked
type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	selected, err := ctx.Hobbies.Selected(ctx.Ctx(), user.UID)
	if err != nil {
		return fmt.Errorf("failed to load hobbies: %w", err)
	}

	for _, cat := range hobbies.ByCategory() {
		fmt.Println(cat.Name)
		for _, h := range cat.Hobbies {
			fmt.Printf("  %s %-12s %s\n", cli.Checkbox(slices.Contains(selected, h.ID)), h.ID, h.Title)
		}
	}
	return nil
}

func parsePeriod(s string) (constants.Period, error) {
	p := constants.Period(strings.ToLower(s))
	if !hobbies.ValidPeriod(p) {
		return "", fmt.Errorf("%w: %q", hobbies.ErrInvalidPeriod, s)
	}
	return p, nil
}

func title(id string) string {
	if h, ok := hobbies.Lookup(id); ok {
		return h.Title
	}
	return id
}

func printLog(log models.HobbyLog) {
	fmt.Printf("%s %s: %d minutes\n", log.Day, log.Period, log.TotalMinutes())
	if len(log.Entries) == 0 {
		fmt.Println("  nothing logged")
		return
	}
	for i, e := range log.Entries {
		fmt.Printf("  %d. %-20s %3d min\n", i+1, title(e.Hobby), e.Minutes)
	}
}
