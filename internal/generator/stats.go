package generator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/models"
)

type FieldSummary struct {
	Field  string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

type Summary struct {
	Rows       int
	ClassHours int
	Fields     []FieldSummary
}

// Summarize computes per-column statistics of a generated table.
func Summarize(rule config.ClassHourRule, readings []models.Reading) Summary {
	summary := Summary{Rows: len(readings)}
	if len(readings) == 0 {
		return summary
	}

	columns := map[string][]float64{}
	order := []string{"temperature", "humidity", "co2", "noise", "light", "occupancy"}
	for _, name := range order {
		columns[name] = make([]float64, len(readings))
	}

	for i, r := range readings {
		columns["temperature"][i] = r.Temperature
		columns["humidity"][i] = r.Humidity
		columns["co2"][i] = r.CO2
		columns["noise"][i] = r.Noise
		columns["light"][i] = r.Light
		columns["occupancy"][i] = float64(r.Occupancy)

		if IsClassHour(rule, r) {
			summary.ClassHours++
		}
	}

	for _, name := range order {
		values := columns[name]
		mean, stdDev := stat.MeanStdDev(values, nil)
		// The sample deviation is undefined for a single row.
		if len(values) < 2 {
			stdDev = 0
		}
		summary.Fields = append(summary.Fields, FieldSummary{
			Field:  name,
			Mean:   mean,
			StdDev: stdDev,
			Min:    floats.Min(values),
			Max:    floats.Max(values),
		})
	}

	return summary
}
