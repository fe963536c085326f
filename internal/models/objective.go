package models

import "time"

// ObjectiveStatus is the completion record of one objective on one day
type ObjectiveStatus struct {
	Checked   bool      `json:"checked"`
	UpdatedAt time.Time `json:"updatedAt"`
}
