package models

import "github.com/julianstephens/dailies/internal/constants"

// Hobby is a catalog hobby grouped by category
type Hobby struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// HobbyLogEntry records time spent on a hobby
type HobbyLogEntry struct {
	Hobby   string `json:"hobby"`
	Minutes int    `json:"minutes"`
}

// HobbyLog holds every entry logged for one day and period
type HobbyLog struct {
	Day     string           `json:"day"` // YYYY-MM-DD format
	Period  constants.Period `json:"period"`
	Entries []HobbyLogEntry  `json:"entries"`
}

// TotalMinutes sums the minutes of every entry
func (l HobbyLog) TotalMinutes() int {
	total := 0
	for _, e := range l.Entries {
		total += e.Minutes
	}
	return total
}
