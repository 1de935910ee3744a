package config

import (
	"os"
	"path/filepath"
)

const (
	DB_NAME = "runs.sqlite"
)

func DBPath() string {
	if dbPath := os.Getenv("CLASSROOM_DATAGEN_DB_PATH"); dbPath != "" {
		return dbPath
	}

	return filepath.Join(DataDir(), DB_NAME)
}
