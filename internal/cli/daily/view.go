// Package daily holds the commands for the daily list, exercises, checks and
// progress.
package daily

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/dayview"
	"github.com/julianstephens/dailies/internal/progress"
)

func sources(ctx *cli.Context) dayview.Sources {
	return dayview.Sources{
		Lists:    ctx.Lists,
		Statuses: ctx.Objectives,
		Hobbies:  ctx.Hobbies,
		Tracker:  ctx.Tracker,
	}
}

func printView(view dayview.View) {
	fmt.Printf("%s  %s\n\n", view.Day, cli.FormatProgress(view.Progress))
	if len(view.Rows) == 0 {
		fmt.Println("Your daily list is empty. Run 'dailies list builder' to add items.")
		return
	}
	for _, row := range view.Rows {
		line := fmt.Sprintf("%s %s", cli.Checkbox(row.Checked), row.Item.Title)
		if row.Err != nil {
			line += "  (could not load)"
		}
		fmt.Println(line)

		switch row.Kind {
		case progress.KindExerciseGroup:
			if len(row.Exercises) == 0 {
				fmt.Println("      no exercises selected")
			}
			for _, ex := range row.Exercises {
				fmt.Printf("      %s %s\n", cli.Checkbox(ex.Checked), ex.Title)
			}
		case progress.KindHobbyGroup:
			if n := len(row.Hobby.Entries); n > 0 {
				names := make([]string, n)
				for i, e := range row.Hobby.Entries {
					names[i] = fmt.Sprintf("%s %dm", e.Hobby, e.Minutes)
				}
				fmt.Printf("      %s\n", strings.Join(names, ", "))
			}
		}
	}
}
