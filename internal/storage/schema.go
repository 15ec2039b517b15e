package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 2

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createRunsTable(tx); err != nil {
			return err
		}
		if err := createStoreyAreasTable(tx); err != nil {
			return err
		}
		if err := addProjectColumns(tx); err != nil {
			return err
		}

		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", "version", currentSchemaVersion)
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Database schema is up to date", "version", version)
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	db.logger.Info("Running database migrations",
		"from_version", version,
		"to_version", currentSchemaVersion,
	)

	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if version < 1 {
			if err := createSchemaVersionTable(tx); err != nil {
				return err
			}
			if err := createRunsTable(tx); err != nil {
				return err
			}
			if err := createStoreyAreasTable(tx); err != nil {
				return err
			}
		}
		if version < 2 {
			if err := addProjectColumns(tx); err != nil {
				return err
			}
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	ctx := context.Background()

	var tableName string
	err := db.QueryRow(ctx, `
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion sets the schema version
func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("DELETE FROM schema_version")
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// createSchemaVersionTable creates the schema_version tracking table
func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

// createRunsTable creates the runs table. Absent metrics are stored as NULL.
func createRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			model_path TEXT NOT NULL,
			model_schema TEXT NOT NULL,
			height_m REAL,
			height_category TEXT NOT NULL,
			total_area_m2 REAL,
			small_building TEXT NOT NULL,
			spaces INTEGER NOT NULL,
			unassigned_spaces INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_runs_model_path ON runs(model_path)",
	}

	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// createStoreyAreasTable creates the per-storey rows of a run
func createStoreyAreasTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS storey_areas (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			elevation_m REAL,
			area_m2 REAL NOT NULL,
			comment TEXT NOT NULL,

			PRIMARY KEY (run_id, position),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create storey_areas table: %w", err)
	}
	return nil
}

// addProjectColumns links runs to project metadata (schema version 2)
func addProjectColumns(tx *sql.Tx) error {
	columns := []string{
		"ALTER TABLE runs ADD COLUMN project_number TEXT NOT NULL DEFAULT ''",
		"ALTER TABLE runs ADD COLUMN project_name TEXT NOT NULL DEFAULT ''",
		"ALTER TABLE runs ADD COLUMN tool_version TEXT NOT NULL DEFAULT ''",
	}
	for _, stmt := range columns {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to add project columns: %w", err)
		}
	}
	if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_runs_project_number ON runs(project_number)"); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}
