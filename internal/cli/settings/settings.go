package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/utils"
)

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	settings, err := storage.LoadSettings(ctx.Ctx(), ctx.Store)
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:  %s\n", settings.Timezone)
	fmt.Printf("  Today:     %s\n", utils.DayKeyIn(time.Now(), loc))
	fmt.Printf("  Storage:   %s\n", ctx.Store.GetConfigPath())
	return nil
}

// SetCmd updates one setting
type SetCmd struct {
	Key   string `arg:"" enum:"timezone" help:"Setting name (timezone)."`
	Value string `arg:"" help:"New value."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	switch c.Key {
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(c.Value) {
			return fmt.Errorf("invalid timezone %q: use an IANA name such as Europe/Paris, or Local", c.Value)
		}
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := ctx.Store.SaveSetting(ctx.Ctx(), c.Key, c.Value); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	// Day keys move with the timezone.
	ctx.Tracker.Refresh()
	fmt.Println("Settings updated successfully.")
	return nil
}
