package database

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monorkin/classroom-datagen/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "nested", "runs.sqlite"))
	require.NoError(t, err)
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	version, err := CurrentSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion(2), version)

	require.NoError(t, Migrate(db))

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	pending, err := MigrationsNewerThan(version)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	start := time.Date(2024, time.November, 4, 8, 0, 0, 0, time.UTC)
	readings := []models.Reading{
		models.NewReading(start),
		models.NewReading(start.Add(time.Hour)),
		models.NewReading(start.Add(2 * time.Hour)),
	}
	readings[0].Temperature = 27.5
	readings[1].Occupancy = 31

	run := &models.Run{
		Room:        "classroom",
		Seed:        42,
		WindowStart: start,
		WindowEnd:   start.Add(2 * time.Hour),
		Interval:    time.Hour,
	}
	require.NoError(t, SaveRun(ctx, db, run, readings))
	assert.NotZero(t, run.ID)
	assert.Equal(t, 3, run.RowCount)
	assert.Zero(t, readings[0].RunID)

	runs, err := ListRuns(ctx, db)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.Seed(42), runs[0].Seed)
	assert.Equal(t, time.Hour, runs[0].Interval)

	stored, err := ReadingsForRun(ctx, db, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, 27.5, stored[0].Temperature)
	assert.Equal(t, 31, stored[1].Occupancy)
	assert.True(t, stored[0].Timestamp.Equal(start))

	found, err := FindRun(ctx, db, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "classroom", found.Room)

	_, err = FindRun(ctx, db, run.ID+1)
	assert.Error(t, err)
}

func TestSaveRunKeepsFullSeedRange(t *testing.T) {
	tests := []struct {
		name string
		seed models.Seed
	}{
		{"zero", 0},
		{"max int64", math.MaxInt64},
		{"high bit set", math.MaxInt64 + 1},
		{"max uint64", math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := openTestDB(t)

			start := time.Date(2024, time.November, 4, 8, 0, 0, 0, time.UTC)
			run := &models.Run{Room: "classroom", Seed: tt.seed, WindowStart: start, WindowEnd: start, Interval: time.Hour}
			require.NoError(t, SaveRun(ctx, db, run, []models.Reading{models.NewReading(start)}))

			found, err := FindRun(ctx, db, run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.seed, found.Seed)
		})
	}
}
