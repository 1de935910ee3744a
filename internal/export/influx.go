package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/generator"
	"github.com/monorkin/classroom-datagen/internal/models"
)

const measurementName = "classroom"

// NewPoint maps a reading onto one InfluxDB point tagged with the room.
func NewPoint(room string, reading models.Reading) *write.Point {
	return influxdb2.NewPoint(
		measurementName,
		map[string]string{"room": room},
		map[string]interface{}{
			"temperature": reading.Temperature,
			"humidity":    reading.Humidity,
			"co2":         reading.CO2,
			"noise":       reading.Noise,
			"light":       reading.Light,
			"occupancy":   reading.Occupancy,
			"is_weekend":  reading.IsWeekend,
		},
		reading.Timestamp,
	)
}

type LineProtocolSink struct {
	Path string
	Room string
}

func (s *LineProtocolSink) Location() string {
	return s.Path
}

func (s *LineProtocolSink) Write(ctx context.Context, readings []models.Reading) error {
	file, err := os.Create(s.Path)
	if err != nil {
		return &IOError{Op: "create", Path: s.Path, Err: err}
	}

	buffered := bufio.NewWriter(file)
	if err := WriteLineProtocol(buffered, s.Room, readings); err != nil {
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

// WriteLineProtocol writes one line per reading with second precision.
func WriteLineProtocol(w io.Writer, room string, readings []models.Reading) error {
	for _, reading := range readings {
		line := write.PointToLineProtocol(NewPoint(room, reading), time.Second)
		if _, err := io.WriteString(w, strings.TrimRight(line, "\n")+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// InfluxSink pushes readings to an InfluxDB v2 bucket.
type InfluxSink struct {
	settings config.InfluxSettings
	room     string
}

func NewInfluxSink(settings config.InfluxSettings, room string) (*InfluxSink, error) {
	switch {
	case settings.URL == "":
		return nil, &generator.ConfigurationError{Field: "influx.url", Reason: "required for the influx format"}
	case settings.Org == "":
		return nil, &generator.ConfigurationError{Field: "influx.org", Reason: "required for the influx format"}
	case settings.Bucket == "":
		return nil, &generator.ConfigurationError{Field: "influx.bucket", Reason: "required for the influx format"}
	}

	return &InfluxSink{settings: settings, room: room}, nil
}

func (s *InfluxSink) Location() string {
	return fmt.Sprintf("%s (bucket %s)", s.settings.URL, s.settings.Bucket)
}

func (s *InfluxSink) Write(ctx context.Context, readings []models.Reading) error {
	client := influxdb2.NewClient(s.settings.URL, s.settings.Token)
	defer client.Close()

	points := make([]*write.Point, len(readings))
	for i, reading := range readings {
		points[i] = NewPoint(s.room, reading)
	}

	writeAPI := client.WriteAPIBlocking(s.settings.Org, s.settings.Bucket)
	if err := writeAPI.WritePoint(ctx, points...); err != nil {
		return &IOError{Op: "push", Path: s.settings.URL, Err: err}
	}

	return nil
}
