package models

import "time"

// TimeWindow is one bounded date range submitted as a single aggregate query
// to GitHub. Windows produced by the chunker are disjoint, contiguous and at
// most one year long.
type TimeWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of calendar days the window spans, inclusive.
func (w TimeWindow) Days() int {
	return int(w.To.Sub(w.From).Hours()/24) + 1
}
