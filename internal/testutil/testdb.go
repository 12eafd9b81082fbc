package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/harborguide/internal/db"
)

// NewTestDB opens an in-memory fact store with migrations applied and closes
// it when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
