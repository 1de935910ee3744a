// Package generator builds the simulated classroom sensor table.
package generator

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/models"
)

type channel struct {
	name     string
	settings config.SignalSettings
	value    func(*models.Reading) *float64
}

// channels lists the continuous signals in draw order.
func channels(settings *config.Settings) []channel {
	return []channel{
		{"temperature", settings.Temperature, func(r *models.Reading) *float64 { return &r.Temperature }},
		{"humidity", settings.Humidity, func(r *models.Reading) *float64 { return &r.Humidity }},
		{"co2", settings.CO2, func(r *models.Reading) *float64 { return &r.CO2 }},
		{"noise", settings.Noise, func(r *models.Reading) *float64 { return &r.Noise }},
		{"light", settings.Light, func(r *models.Reading) *float64 { return &r.Light }},
	}
}

type Generator struct {
	settings *config.Settings
	src      *rand.Rand
	logger   *slog.Logger
}

// NewSource returns the deterministic random source used for a seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func New(settings *config.Settings, src *rand.Rand) *Generator {
	return NewWithLogger(settings, src, nil)
}

func NewWithLogger(settings *config.Settings, src *rand.Rand, logger *slog.Logger) *Generator {
	if src == nil {
		src = NewSource(settings.Seed)
	}

	return &Generator{
		settings: settings,
		src:      src,
		logger:   logger,
	}
}

func (g *Generator) log(level slog.Level, msg string, args ...any) {
	if g.logger != nil {
		g.logger.Log(context.Background(), level, msg, args...)
	}
}

// Generate draws the full table. The table is built column by column so
// the order of random draws only depends on the settings and the seed.
func (g *Generator) Generate() ([]models.Reading, error) {
	if err := Validate(g.settings); err != nil {
		return nil, err
	}

	timestamps, err := Timeline(g.settings.Start, g.settings.End, g.settings.Interval)
	if err != nil {
		return nil, err
	}

	readings := make([]models.Reading, len(timestamps))
	for i, ts := range timestamps {
		readings[i] = models.NewReading(ts)
	}

	g.log(slog.LevelDebug, "Sampling base signals", "rows", len(readings), "seed", g.settings.Seed)
	g.sampleBase(readings)

	classHours, offHours := partition(g.settings.ClassHours, readings)
	g.log(slog.LevelDebug, "Classified rows", "class_hours", len(classHours), "off_hours", len(offHours))

	g.adjustClassHours(readings, classHours)
	g.overrideOffHours(readings, offHours)
	g.clip(readings)

	return readings, nil
}

func (g *Generator) sampleBase(readings []models.Reading) {
	for _, ch := range channels(g.settings) {
		normal := distuv.Normal{
			Mu:    ch.settings.Mean,
			Sigma: ch.settings.StdDev,
			Src:   g.src,
		}
		for i := range readings {
			*ch.value(&readings[i]) = normal.Rand()
		}
	}

	base := g.settings.Occupancy.Base
	for i := range readings {
		readings[i].Occupancy = base.Min + g.src.IntN(base.Max-base.Min)
	}
}

func (g *Generator) adjustClassHours(readings []models.Reading, rows []int) {
	all := channels(g.settings)

	// Occupancy is drawn between noise and light.
	for _, ch := range all[:4] {
		g.addOffset(readings, rows, ch)
	}

	offset := g.settings.Occupancy.ClassOffset
	for _, i := range rows {
		readings[i].Occupancy += offset.Min + g.src.IntN(offset.Max-offset.Min)
	}

	g.addOffset(readings, rows, all[4])
}

func (g *Generator) addOffset(readings []models.Reading, rows []int, ch channel) {
	if ch.settings.ClassOffset == nil {
		return
	}

	uniform := distuv.Uniform{
		Min: ch.settings.ClassOffset.Min,
		Max: ch.settings.ClassOffset.Max,
		Src: g.src,
	}
	for _, i := range rows {
		*ch.value(&readings[i]) += uniform.Rand()
	}
}

func (g *Generator) overrideOffHours(readings []models.Reading, rows []int) {
	for _, i := range rows {
		readings[i].Occupancy = g.settings.Occupancy.OffHours
	}

	for _, ch := range channels(g.settings) {
		if ch.settings.OffHours == nil {
			continue
		}

		uniform := distuv.Uniform{
			Min: ch.settings.OffHours.Min,
			Max: ch.settings.OffHours.Max,
			Src: g.src,
		}
		for _, i := range rows {
			*ch.value(&readings[i]) = uniform.Rand()
		}
	}
}

func (g *Generator) clip(readings []models.Reading) {
	for _, ch := range channels(g.settings) {
		for i := range readings {
			value := ch.value(&readings[i])
			*value = Clip(*value, ch.settings.Bounds)
		}
	}

	bounds := g.settings.Occupancy.Bounds
	for i := range readings {
		readings[i].Occupancy = ClipInt(readings[i].Occupancy, bounds)
	}
}

// IsClassHour reports whether a reading falls in instructional time.
func IsClassHour(rule config.ClassHourRule, reading models.Reading) bool {
	if reading.IsWeekend && !rule.IncludeWeekends {
		return false
	}

	return reading.Hour >= rule.FirstHour && reading.Hour <= rule.LastHour
}

func partition(rule config.ClassHourRule, readings []models.Reading) (classHours, offHours []int) {
	for i, reading := range readings {
		if IsClassHour(rule, reading) {
			classHours = append(classHours, i)
		} else {
			offHours = append(offHours, i)
		}
	}

	return classHours, offHours
}

func Clip(value float64, bounds config.Range) float64 {
	return math.Max(bounds.Min, math.Min(bounds.Max, value))
}

func ClipInt(value int, bounds config.IntRange) int {
	return max(bounds.Min, min(bounds.Max, value))
}
