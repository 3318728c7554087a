package models

import "time"

// DateLayout is the day key used across logs and storage backends.
const DateLayout = "2006-01-02"

// DailyLogEntry groups the meals of one calendar day.
type DailyLogEntry struct {
	Date          string  `json:"date"`
	Meals         []Meal  `json:"meals"`
	TotalCalories float64 `json:"total_calories"`
}

// Recalculate resets TotalCalories to the sum of the meals.
func (d *DailyLogEntry) Recalculate() {
	var total float64
	for _, m := range d.Meals {
		total += m.TotalCalories
	}
	d.TotalCalories = total
}

// Day parses Date in loc.
func (d *DailyLogEntry) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, d.Date, loc)
}
