package models

import (
	"github.com/julianstephens/dailies/internal/constants"
)

// CatalogItem is a built-in daily item a user can enable
type CatalogItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DailyItemConfig is a user's configuration for one catalog item or group
type DailyItemConfig struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
	Order   int    `json:"order"`
}

// ExerciseSelection names the sub-exercises that make up each exercise group
type ExerciseSelection struct {
	Morning []string `json:"morning"`
	Night   []string `json:"night"`
}

// For returns the exercises configured for the given period.
// Unknown periods have no exercises.
func (s ExerciseSelection) For(period constants.Period) []string {
	switch period {
	case constants.PeriodMorning:
		return s.Morning
	case constants.PeriodNight:
		return s.Night
	default:
		return nil
	}
}

// Set replaces the exercises configured for the given period.
func (s *ExerciseSelection) Set(period constants.Period, names []string) bool {
	switch period {
	case constants.PeriodMorning:
		s.Morning = names
	case constants.PeriodNight:
		s.Night = names
	default:
		return false
	}
	return true
}
