package constants

const (
	SettingTimezone    = "timezone"
	SettingHasLaunched = "has_launched"

	DefaultTimezone = "Local" // Use system local timezone by default
)
