package models

import (
	"time"
)

// Columns is the fixed column order of every tabular export.
var Columns = []string{
	"timestamp",
	"temperature",
	"humidity",
	"co2",
	"noise",
	"light",
	"occupancy",
	"hour",
	"day_of_week",
	"is_weekend",
}

type Reading struct {
	ID          uint      `gorm:"primaryKey"`
	RunID       uint      `gorm:"index"`
	Timestamp   time.Time `gorm:"index"`
	Temperature float64
	Humidity    float64
	CO2         float64 `gorm:"column:co2"`
	Noise       float64
	Light       float64
	Occupancy   int
	Hour        int
	DayOfWeek   int
	IsWeekend   bool
}

// NewReading fills the calendar fields from ts. Monday is day 0.
func NewReading(ts time.Time) Reading {
	dayOfWeek := (int(ts.Weekday()) + 6) % 7

	return Reading{
		Timestamp: ts,
		Hour:      ts.Hour(),
		DayOfWeek: dayOfWeek,
		IsWeekend: dayOfWeek >= 5,
	}
}
