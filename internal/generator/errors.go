package generator

import (
	"fmt"
	"time"

	"github.com/monorkin/classroom-datagen/internal/config"
)

// ConfigurationError reports settings that cannot produce a dataset.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func Validate(settings *config.Settings) error {
	if settings.End.Before(settings.Start) {
		return &ConfigurationError{
			Field:  "end",
			Reason: fmt.Sprintf("%s is before start %s", settings.End.Format(time.RFC3339), settings.Start.Format(time.RFC3339)),
		}
	}
	if settings.Interval <= 0 {
		return &ConfigurationError{Field: "interval", Reason: "must be positive"}
	}

	rule := settings.ClassHours
	if rule.FirstHour < 0 || rule.LastHour > 23 || rule.FirstHour > rule.LastHour {
		return &ConfigurationError{
			Field:  "class_hours",
			Reason: fmt.Sprintf("hours %d..%d are not a range within 0..23", rule.FirstHour, rule.LastHour),
		}
	}

	for _, channel := range channels(settings) {
		if err := validateSignal(channel.name, channel.settings); err != nil {
			return err
		}
	}

	occupancy := settings.Occupancy
	if occupancy.Base.Max <= occupancy.Base.Min {
		return &ConfigurationError{Field: "occupancy.base", Reason: "max must be greater than min"}
	}
	if occupancy.ClassOffset.Max <= occupancy.ClassOffset.Min {
		return &ConfigurationError{Field: "occupancy.class_offset", Reason: "max must be greater than min"}
	}
	if occupancy.Bounds.Max < occupancy.Bounds.Min {
		return &ConfigurationError{Field: "occupancy.bounds", Reason: "max is below min"}
	}

	return nil
}

func validateSignal(name string, signal config.SignalSettings) error {
	if signal.StdDev < 0 {
		return &ConfigurationError{Field: name + ".stddev", Reason: "must not be negative"}
	}
	if signal.Bounds.Max < signal.Bounds.Min {
		return &ConfigurationError{Field: name + ".bounds", Reason: "max is below min"}
	}
	if signal.ClassOffset != nil && signal.ClassOffset.Max < signal.ClassOffset.Min {
		return &ConfigurationError{Field: name + ".class_offset", Reason: "max is below min"}
	}
	if signal.OffHours != nil && signal.OffHours.Max < signal.OffHours.Min {
		return &ConfigurationError{Field: name + ".off_hours", Reason: "max is below min"}
	}

	return nil
}
