package hobbies

import (
	"fmt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/models"
)

// LogShowCmd prints the entries for one period, or every period when none
// is given.
type LogShowCmd struct {
	Period string `arg:"" optional:"" help:"morning, afternoon or evening."`
	Date   string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
}

func (c *LogShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}

	periods := hobbies.Periods
	if c.Period != "" {
		p, err := parsePeriod(c.Period)
		if err != nil {
			return err
		}
		periods = []constants.Period{p}
	}
	for _, p := range periods {
		log, err := ctx.Hobbies.Log(ctx.Ctx(), user.UID, day, p)
		if err != nil {
			return fmt.Errorf("failed to load hobby log: %w", err)
		}
		printLog(log)
	}
	return nil
}

type LogAddCmd struct {
	Period  string `arg:"" help:"morning, afternoon or evening."`
	Hobby   string `arg:"" help:"Hobby ID."`
	Minutes int    `arg:"" help:"Minutes spent."`
	Date    string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	if _, ok := hobbies.Lookup(c.Hobby); !ok {
		return fmt.Errorf("%w: %s", hobbies.ErrUnknownHobby, c.Hobby)
	}
	return mutate(ctx, c.Date, c.Period, func(uid, day string, log *models.HobbyLog) error {
		updated, err := ctx.Hobbies.Add(ctx.Ctx(), uid, day, log.Period, c.Hobby, c.Minutes)
		*log = updated
		return err
	})
}

type LogEditCmd struct {
	Period  string `arg:"" help:"morning, afternoon or evening."`
	Entry   int    `arg:"" help:"Entry number from 'hobbies log show'."`
	Minutes int    `arg:"" help:"New minutes."`
	Date    string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, c.Date, c.Period, func(uid, day string, log *models.HobbyLog) error {
		updated, err := ctx.Hobbies.EditMinutes(ctx.Ctx(), uid, day, log.Period, c.Entry-1, c.Minutes)
		*log = updated
		return err
	})
}

type LogRemoveCmd struct {
	Period string `arg:"" help:"morning, afternoon or evening."`
	Entry  int    `arg:"" help:"Entry number from 'hobbies log show'."`
	Date   string `help:"Day (YYYY-MM-DD). Defaults to today." short:"d"`
}

func (c *LogRemoveCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, c.Date, c.Period, func(uid, day string, log *models.HobbyLog) error {
		updated, err := ctx.Hobbies.Remove(ctx.Ctx(), uid, day, log.Period, c.Entry-1)
		*log = updated
		return err
	})
}

// mutate resolves the user, day and period, applies fn, then invalidates the
// day's progress since hobby groups count as done once anything is logged.
func mutate(ctx *cli.Context, date, period string, fn func(uid, day string, log *models.HobbyLog) error) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	day, err := ctx.Day(date)
	if err != nil {
		return err
	}
	p, err := parsePeriod(period)
	if err != nil {
		return err
	}

	log := models.HobbyLog{Day: day, Period: p}
	if err := fn(user.UID, day, &log); err != nil {
		return err
	}
	ctx.Tracker.NotifyChanged(user.UID, day)
	printLog(log)
	return nil
}
