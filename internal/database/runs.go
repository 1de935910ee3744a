package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/monorkin/classroom-datagen/internal/models"
)

const readingsBatchSize = 200

// SaveRun stores run and its readings atomically. The readings slice is
// not modified.
func SaveRun(ctx context.Context, db *gorm.DB, run *models.Run, readings []models.Reading) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run.RowCount = len(readings)
		if err := tx.Omit("Readings").Create(run).Error; err != nil {
			return fmt.Errorf("failed to create run: %w", err)
		}

		if len(readings) == 0 {
			return nil
		}

		rows := make([]models.Reading, len(readings))
		for i, reading := range readings {
			reading.ID = 0
			reading.RunID = run.ID
			rows[i] = reading
		}

		if err := tx.CreateInBatches(&rows, readingsBatchSize).Error; err != nil {
			return fmt.Errorf("failed to store readings for run %d: %w", run.ID, err)
		}

		return nil
	})
}

func ListRuns(ctx context.Context, db *gorm.DB) ([]models.Run, error) {
	var runs []models.Run
	err := db.WithContext(ctx).Order("id DESC").Find(&runs).Error
	return runs, err
}

func FindRun(ctx context.Context, db *gorm.DB, id uint) (models.Run, error) {
	var run models.Run
	err := db.WithContext(ctx).First(&run, id).Error
	return run, err
}

func ReadingsForRun(ctx context.Context, db *gorm.DB, runID uint) ([]models.Reading, error) {
	var readings []models.Reading
	err := db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("timestamp ASC").
		Find(&readings).Error
	return readings, err
}
