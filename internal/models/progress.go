package models

// Progress is the completed/total ratio of a day's enabled items
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Add folds another unit of progress into p
func (p Progress) Add(o Progress) Progress {
	return Progress{Completed: p.Completed + o.Completed, Total: p.Total + o.Total}
}

// Ratio returns completed/total, or 0 when nothing is tracked
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// AllComplete reports whether every tracked item is done
func (p Progress) AllComplete() bool {
	return p.Total > 0 && p.Completed == p.Total
}
