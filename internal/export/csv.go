package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/monorkin/classroom-datagen/internal/models"
)

const TimestampLayout = "2006-01-02 15:04:05"

type CSVSink struct {
	Path      string
	Precision int
}

func (s *CSVSink) Location() string {
	return s.Path
}

func (s *CSVSink) Write(ctx context.Context, readings []models.Reading) error {
	file, err := os.Create(s.Path)
	if err != nil {
		return &IOError{Op: "create", Path: s.Path, Err: err}
	}

	buffered := bufio.NewWriter(file)
	if err := WriteCSV(buffered, readings, s.Precision); err != nil {
		file.Close()
		return &IOError{Op: "write", Path: s.Path, Err: err}
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return &IOError{Op: "write", Path: s.Path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &IOError{Op: "close", Path: s.Path, Err: err}
	}

	return nil
}

// WriteCSV writes the header and one record per reading.
func WriteCSV(w io.Writer, readings []models.Reading, precision int) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(models.Columns); err != nil {
		return err
	}
	for _, reading := range readings {
		if err := writer.Write(FormatRow(reading, precision)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatRow renders a reading in column order. A negative precision uses
// the shortest representation that round-trips.
func FormatRow(reading models.Reading, precision int) []string {
	return []string{
		reading.Timestamp.Format(TimestampLayout),
		formatFloat(reading.Temperature, precision),
		formatFloat(reading.Humidity, precision),
		formatFloat(reading.CO2, precision),
		formatFloat(reading.Noise, precision),
		formatFloat(reading.Light, precision),
		strconv.Itoa(reading.Occupancy),
		strconv.Itoa(reading.Hour),
		strconv.Itoa(reading.DayOfWeek),
		formatBool(reading.IsWeekend),
	}
}

func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func formatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}
