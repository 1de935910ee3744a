package export

import (
	"context"

	"gorm.io/gorm"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/database"
	"github.com/monorkin/classroom-datagen/internal/models"
)

// SQLiteSink stores the table as a run in the run store.
type SQLiteSink struct {
	db       *gorm.DB
	path     string
	settings *config.Settings

	// Run is set after a successful Write.
	Run *models.Run
}

func NewSQLiteSink(db *gorm.DB, path string, settings *config.Settings) *SQLiteSink {
	return &SQLiteSink{db: db, path: path, settings: settings}
}

func (s *SQLiteSink) Location() string {
	return s.path
}

func (s *SQLiteSink) Write(ctx context.Context, readings []models.Reading) error {
	run := &models.Run{
		Room:        s.settings.Room,
		Seed:        models.Seed(s.settings.Seed),
		WindowStart: s.settings.Start,
		WindowEnd:   s.settings.End,
		Interval:    s.settings.Interval,
	}

	if err := database.SaveRun(ctx, s.db, run, readings); err != nil {
		return &IOError{Op: "store", Path: s.path, Err: err}
	}

	s.Run = run
	return nil
}
