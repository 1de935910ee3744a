// Package export writes generated readings to files, the run store and
// InfluxDB.
package export

import (
	"context"
	"fmt"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/database"
	"github.com/monorkin/classroom-datagen/internal/generator"
	"github.com/monorkin/classroom-datagen/internal/models"
)

type Sink interface {
	Write(ctx context.Context, readings []models.Reading) error
	// Location is where the data ends up, for the user.
	Location() string
}

// IOError wraps failures to write the destination.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewSink picks the sink for settings.Output.Format.
func NewSink(settings *config.Settings) (Sink, error) {
	output := settings.Output

	switch output.Format {
	case config.FormatCSV, "":
		return &CSVSink{Path: output.Path, Precision: output.FloatPrecision}, nil
	case config.FormatXLSX:
		return &XLSXSink{Path: output.Path}, nil
	case config.FormatLineProto:
		return &LineProtocolSink{Path: output.Path, Room: settings.Room}, nil
	case config.FormatInflux:
		return NewInfluxSink(settings.Influx, settings.Room)
	case config.FormatSQLite:
		dbPath := config.DBPath()
		db, err := database.Open(dbPath)
		if err != nil {
			return nil, &IOError{Op: "open", Path: dbPath, Err: err}
		}
		return NewSQLiteSink(db, dbPath, settings), nil
	default:
		return nil, &generator.ConfigurationError{
			Field:  "output.format",
			Reason: fmt.Sprintf("unknown format %q", output.Format),
		}
	}
}
