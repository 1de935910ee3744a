package export

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/monorkin/classroom-datagen/internal/models"
)

const readingsSheet = "readings"

type XLSXSink struct {
	Path string
}

func (s *XLSXSink) Location() string {
	return s.Path
}

func (s *XLSXSink) Write(ctx context.Context, readings []models.Reading) error {
	f, err := BuildWorkbook(readings)
	if err != nil {
		return &IOError{Op: "build", Path: s.Path, Err: err}
	}
	defer f.Close()

	if err := f.SaveAs(s.Path); err != nil {
		return &IOError{Op: "write", Path: s.Path, Err: err}
	}

	return nil
}

// BuildWorkbook lays readings out on a single sheet with typed cells.
func BuildWorkbook(readings []models.Reading) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", readingsSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(models.Columns))
	for i, column := range models.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(readingsSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, reading := range readings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}

		row := []interface{}{
			reading.Timestamp.Format(TimestampLayout),
			reading.Temperature,
			reading.Humidity,
			reading.CO2,
			reading.Noise,
			reading.Light,
			reading.Occupancy,
			reading.Hour,
			reading.DayOfWeek,
			reading.IsWeekend,
		}
		if err := f.SetSheetRow(readingsSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}
