package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monorkin/classroom-datagen/internal/database"
	"github.com/monorkin/classroom-datagen/internal/models"
)

// useRunStore swaps the shared run store for a fresh database.
func useRunStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "runs.sqlite"))
	require.NoError(t, err)

	previous := openRunStore
	openRunStore = func() (*gorm.DB, error) { return db, nil }
	t.Cleanup(func() { openRunStore = previous })

	return db
}

func newRunsCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func saveSingleRowRun(t *testing.T, db *gorm.DB, seed models.Seed) *models.Run {
	t.Helper()

	start := time.Date(2024, time.November, 4, 10, 0, 0, 0, time.UTC)
	reading := models.NewReading(start)
	reading.Temperature = 27.5
	reading.Occupancy = 31

	run := &models.Run{
		Room:        "classroom",
		Seed:        seed,
		WindowStart: start,
		WindowEnd:   start,
		Interval:    time.Hour,
	}
	require.NoError(t, database.SaveRun(context.Background(), db, run, []models.Reading{reading}))
	return run
}

func TestRunsListEmptyStore(t *testing.T) {
	useRunStore(t)
	cmd, out := newRunsCommand()

	require.NoError(t, runRunsList(cmd, nil))

	assert.Equal(t, "No runs found.\n", out.String())
}

func TestRunsList(t *testing.T) {
	db := useRunStore(t)
	run := saveSingleRowRun(t, db, math.MaxUint64)
	cmd, out := newRunsCommand()

	require.NoError(t, runRunsList(cmd, nil))

	listing := out.String()
	assert.Contains(t, listing, "ID")
	assert.Contains(t, listing, "CREATED")
	assert.Contains(t, listing, "classroom")
	assert.Contains(t, listing, strconv.FormatUint(math.MaxUint64, 10))
	assert.Contains(t, listing, "2024-11-04T10:00:00Z")
	assert.Contains(t, listing, strconv.FormatUint(uint64(run.ID), 10))
}

func TestRunsShow(t *testing.T) {
	db := useRunStore(t)
	run := saveSingleRowRun(t, db, 42)
	cmd, out := newRunsCommand()

	require.NoError(t, runRunsShow(cmd, []string{strconv.FormatUint(uint64(run.ID), 10)}))

	var response struct {
		Run        RunInfo     `json:"run"`
		ClassHours int         `json:"class_hours"`
		Fields     []FieldInfo `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &response))

	assert.Equal(t, run.ID, response.Run.ID)
	assert.Equal(t, "classroom", response.Run.Room)
	assert.Equal(t, uint64(42), response.Run.Seed)
	assert.Equal(t, "2024-11-04T10:00:00Z", response.Run.WindowStart)
	assert.Equal(t, "1h0m0s", response.Run.Interval)
	assert.Equal(t, 1, response.Run.RowCount)
	assert.Equal(t, 1, response.ClassHours)

	require.Len(t, response.Fields, 6)
	assert.Equal(t, "temperature", response.Fields[0].Field)
	assert.Equal(t, 27.5, response.Fields[0].Mean)
	for _, field := range response.Fields {
		assert.Equal(t, 0.0, field.StdDev, field.Field)
	}
}

func TestRunsShowErrors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		message string
	}{
		{"not a number", "abc", `invalid run id "abc"`},
		{"negative", "-1", `invalid run id "-1"`},
		{"not found", "99", "run 99 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useRunStore(t)
			cmd, out := newRunsCommand()

			err := runRunsShow(cmd, []string{tt.id})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Empty(t, out.String())
		})
	}
}
