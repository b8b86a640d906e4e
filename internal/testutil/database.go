package testutil

import (
	"testing"

	"tp-go/internal/database"
	"tp-go/internal/tp"
)

// NewTestDatabase creates an in-memory SQLite database with the schema
// applied. The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) tp.Database {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
