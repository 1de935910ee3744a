package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/export"
	"github.com/monorkin/classroom-datagen/internal/generator"
	"github.com/monorkin/classroom-datagen/internal/models"
)

// isolate points every settings lookup at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("CLASSROOM_DATAGEN_CONFIG", "")
	t.Setenv("CLASSROOM_DATAGEN_SEED", "")
	t.Setenv("CLASSROOM_DATAGEN_OUTPUT", "")
	t.Setenv("CLASSROOM_DATAGEN_FORMAT", "")
	t.Setenv("CLASSROOM_DATAGEN_DB_PATH", "")

	previous := configPath
	configPath = ""
	t.Cleanup(func() { configPath = previous })

	return dir
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Time
	}{
		{"2024-11-04", time.Date(2024, time.November, 4, 0, 0, 0, 0, time.UTC)},
		{"2024-11-04 08:30", time.Date(2024, time.November, 4, 8, 30, 0, 0, time.UTC)},
		{"2024-11-04T08:30", time.Date(2024, time.November, 4, 8, 30, 0, 0, time.UTC)},
		{"2024-11-04 08:30:15", time.Date(2024, time.November, 4, 8, 30, 15, 0, time.UTC)},
		{"2024-11-04T08:00:00Z", time.Date(2024, time.November, 4, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ts, err := parseTime("start", tt.value)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(ts), "got %s", ts)
		})
	}

	_, err := parseTime("end", "next tuesday")
	var configErr *generator.ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "end", configErr.Field)
}

func TestGenerateOptionsApplyOnlyChangedFlags(t *testing.T) {
	opts := &generateOptions{}
	flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	opts.register(flags)

	require.NoError(t, flags.Parse([]string{"--seed", "7", "--end", "2024-11-02", "-f", "xlsx"}))

	settings := config.DefaultSettings()
	require.NoError(t, opts.apply(flags, settings))

	assert.Equal(t, uint64(7), settings.Seed)
	assert.Equal(t, time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC), settings.End)
	assert.Equal(t, config.FormatXLSX, settings.Output.Format)
	assert.Equal(t, config.DefaultSettings().Start, settings.Start)
	assert.Equal(t, config.DefaultOutput, settings.Output.Path)
	assert.Equal(t, time.Hour, settings.Interval)
}

func TestGenerateReport(t *testing.T) {
	dir := isolate(t)

	settings := config.DefaultSettings()
	settings.Start = time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	settings.End = settings.Start.Add(time.Hour)
	settings.Output.Path = filepath.Join(dir, "classroom_data.csv")

	var out bytes.Buffer
	require.NoError(t, generate(context.Background(), settings, &out, true))

	report := out.String()
	assert.Contains(t, report, "Generating 2 samples...")
	assert.Contains(t, report, "Data saved to "+settings.Output.Path)
	assert.Contains(t, report, "Shape: (2, 10)")
	assert.Contains(t, report, "First 2 rows:")
	assert.Contains(t, report, "2024-11-01 01:00:00")
	assert.Contains(t, report, "Rows: 2, class hours: 0")

	data, err := os.ReadFile(settings.Output.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(export.FormatRow(mustGenerate(t, settings)[1], -1), ","), lines[2])
}

func TestGenerateReportsConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Settings)
		field  string
	}{
		{"end before start", func(s *config.Settings) { s.End = s.Start.Add(-time.Hour) }, "end"},
		{"class hours out of range", func(s *config.Settings) { s.ClassHours.LastHour = 24 }, "class_hours"},
		{"negative stddev", func(s *config.Settings) { s.Temperature.StdDev = -1 }, "temperature.stddev"},
		{"empty occupancy offset", func(s *config.Settings) { s.Occupancy.ClassOffset.Max = s.Occupancy.ClassOffset.Min }, "occupancy.class_offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)

			settings := config.DefaultSettings()
			settings.Output.Path = filepath.Join(dir, "classroom_data.csv")
			tt.mutate(settings)

			var out bytes.Buffer
			err := generate(context.Background(), settings, &out, false)

			var configErr *generator.ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
			assert.Empty(t, out.String())
			assert.NoFileExists(t, settings.Output.Path)
		})
	}
}

func TestGenerateReportsIOError(t *testing.T) {
	dir := isolate(t)

	settings := config.DefaultSettings()
	settings.Output.Path = filepath.Join(dir, "missing", "out.csv")

	err := generate(context.Background(), settings, &bytes.Buffer{}, false)

	var ioErr *export.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.NoFileExists(t, settings.Output.Path)
}

func TestLoadSettingsFromFileAndEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "settings.yaml")
	yaml := "seed: 99\ninterval: 30m\noutput:\n  path: from-file.csv\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	configPath = path
	t.Setenv("CLASSROOM_DATAGEN_OUTPUT", "from-env.csv")

	settings, err := loadSettings()
	require.NoError(t, err)

	assert.Equal(t, uint64(99), settings.Seed)
	assert.Equal(t, 30*time.Minute, settings.Interval)
	assert.Equal(t, "from-env.csv", settings.Output.Path)
	assert.Equal(t, config.DefaultSettings().Temperature, settings.Temperature)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	configPath = filepath.Join(dir, "nope.yaml")

	_, err := loadSettings()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "settings.yaml")

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runConfigInit(cmd, []string{path}))
	assert.Contains(t, out.String(), path)

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), loaded)

	assert.Error(t, runConfigInit(cmd, []string{path}))
}

func mustGenerate(t *testing.T, settings *config.Settings) []models.Reading {
	t.Helper()

	readings, err := generator.New(settings, nil).Generate()
	require.NoError(t, err)
	return readings
}
