package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

//go:embed migrations/*/up.sql
var migrationsFS embed.FS

var migrationVersionRegex = regexp.MustCompile(`^(\d+)_`)

type SchemaVersion uint64

type SchemaMigration struct {
	Version SchemaVersion `gorm:"primaryKey"`
}

type Migration struct {
	Version SchemaVersion
	Name    string
}

func (migration Migration) UpSQL() (string, error) {
	upSQL, err := fs.ReadFile(migrationsFS, path.Join("migrations", migration.Name, "up.sql"))
	if err != nil {
		return "", fmt.Errorf("failed to read up.sql for migration %s: %w", migration.Name, err)
	}

	return string(upSQL), nil
}

func CurrentSchemaVersion(db *gorm.DB) (SchemaVersion, error) {
	var version uint64

	err := db.
		Model(&SchemaMigration{}).
		Select("COALESCE(MAX(version), 0)").
		Row().
		Scan(&version)

	return SchemaVersion(version), err
}

// Migrate applies every embedded migration newer than the recorded schema
// version, each in its own transaction.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return err
	}

	currentVersion, err := CurrentSchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	migrations, err := MigrationsNewerThan(currentVersion)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		sql, err := migration.UpSQL()
		if err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(sql).Error; err != nil {
				return err
			}

			return tx.Create(&SchemaMigration{Version: migration.Version}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// MigrationsNewerThan returns embedded migrations in version order.
func MigrationsNewerThan(minVersion SchemaVersion) ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		match := migrationVersionRegex.FindStringSubmatch(entry.Name())
		if len(match) != 2 {
			return nil, fmt.Errorf("invalid migration directory name: %s", entry.Name())
		}

		versionInt, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s - %w", match[1], err)
		}

		version := SchemaVersion(versionInt)
		if version <= minVersion {
			continue
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    entry.Name(),
		})
	}

	return migrations, nil
}
