package models

import "github.com/julianstephens/dailies/internal/constants"

// Settings represents application-wide settings
type Settings struct {
	Timezone    string `json:"timezone"`     // IANA timezone name, or "Local" for the system timezone
	HasLaunched bool   `json:"has_launched"` // whether this device has launched before
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) Settings {
	settings := Settings{}
	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingHasLaunched:
			settings.HasLaunched = value == "true"
		}
	}
	return settings
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
