package storage

import (
	"context"
	"fmt"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/models"
)

// LoadSettings reads the local settings and fills in defaults.
func LoadSettings(ctx context.Context, p Provider) (models.Settings, error) {
	data, err := p.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	settings := models.MapToSettings(data)
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// IsFirstLaunch reports whether this device has launched before and records
// the launch. Only the first call on a fresh store returns true.
func IsFirstLaunch(ctx context.Context, p Provider) (bool, error) {
	launched, err := HasLaunched(ctx, p)
	if err != nil || launched {
		return false, err
	}
	if err := p.SaveSetting(ctx, constants.SettingHasLaunched, "true"); err != nil {
		return false, err
	}
	return true, nil
}

// HasLaunched reports the first launch flag without recording anything.
func HasLaunched(ctx context.Context, p Provider) (bool, error) {
	data, err := p.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return data[constants.SettingHasLaunched] == "true", nil
}
