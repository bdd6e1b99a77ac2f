package database_test

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/database"
)

// TestMigrate tests that the embedded migrations build the full schema.
//
// WHY: Migrations run on every startup; a broken migration file would
// brick the recorder before its first run.
func TestMigrate(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() returned unexpected error: %v", err)
	}

	for _, table := range []string{"user", "transaction", "valuation_history"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %q to exist: %v", table, err)
		}
	}

	// Re-applying migrations on an up-to-date database is a no-op.
	if err := database.Migrate(db); err != nil {
		t.Errorf("Second Migrate() must be a no-op, got: %v", err)
	}
}
