package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; schema_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS port_calls (
		id                  TEXT PRIMARY KEY,
		vessel              TEXT NOT NULL,
		business_unit       TEXT NOT NULL DEFAULT '',
		atb                 TEXT NOT NULL,
		arrival_accurate    INTEGER NOT NULL DEFAULT 0 CHECK(arrival_accurate IN (0, 1)),
		arrival_variance_h  REAL NOT NULL DEFAULT 0,
		berth_hours         REAL NOT NULL DEFAULT 0 CHECK(berth_hours >= 0),
		carbon_tonnes       REAL NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_port_calls_atb ON port_calls(atb)`,
	`CREATE INDEX IF NOT EXISTS idx_port_calls_vessel_atb ON port_calls(vessel, atb)`,
}

// Migrate applies every migration newer than the recorded schema version.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if current == len(migrations) {
		return nil
	}

	if _, err := db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("resetting schema_version: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, len(migrations)); err != nil {
		return fmt.Errorf("recording schema_version: %w", err)
	}
	return nil
}

// SchemaVersion returns the number of applied migrations.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema_version: %w", err)
	}
	return int(v.Int64), nil
}
