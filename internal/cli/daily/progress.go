package daily

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/utils"
)

// ProgressCmd prints completion for a range of days ending at --date
type ProgressCmd struct {
	Date string `help:"Last day to show (YYYY-MM-DD). Defaults to today." short:"d"`
	Days int    `help:"Number of days to show." default:"1"`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return errors.New("--days must be at least 1")
	}
	user, err := ctx.User()
	if err != nil {
		return err
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	last, err := utils.ResolveDay(c.Date, loc)
	if err != nil {
		return err
	}
	end, err := utils.ParseDayKey(last, loc)
	if err != nil {
		return err
	}

	days := utils.DayRange(end.AddDate(0, 0, -(c.Days-1)), end, loc)
	for i := len(days) - 1; i >= 0; i-- {
		p, err := ctx.Tracker.DayProgress(ctx.Ctx(), user.UID, days[i])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", days[i], cli.FormatProgress(p))
	}
	return nil
}
