package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"focusos/internal/infrastructure/logging"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner_RunMigrations(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, "test_migrations.db")
	runner := NewMigrationRunner(db, logging.NopLogger{})
	ctx := context.Background()

	if err := runner.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	for _, table := range []string{"kv_store", "goose_db_version"} {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}

	var indexName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_kv_store_updated_at'").Scan(&indexName)
	if err != nil {
		t.Errorf("updated_at index was not created: %v", err)
	}
}

func TestMigrationRunner_NilDB(t *testing.T) {
	t.Parallel()

	runner := NewMigrationRunner(nil, logging.NopLogger{})
	ctx := context.Background()

	if err := runner.RunMigrations(ctx); err == nil || err.Error() != "database connection is nil" {
		t.Errorf("RunMigrations() error = %v", err)
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err == nil || err.Error() != "database connection is nil" {
		t.Errorf("GetCurrentVersion() error = %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 for error case, got %d", version)
	}

	// Validation reads the embedded files only
	if err := runner.ValidateMigrations(); err != nil {
		t.Errorf("Validation should work even with nil database: %v", err)
	}
}

func TestMigrationRunner_VersionAndIdempotence(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, "test_version.db")
	runner := NewMigrationRunner(db, logging.NopLogger{})
	ctx := context.Background()

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to get initial version: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected initial version 0, got %d", version)
	}

	if err := runner.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations first time: %v", err)
	}
	version1, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to get version after first run: %v", err)
	}
	if version1 != 2 {
		t.Errorf("Expected version 2 after migration, got %d", version1)
	}

	if err := runner.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations second time: %v", err)
	}
	version2, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to get version after second run: %v", err)
	}
	if version1 != version2 {
		t.Errorf("Expected same version after multiple runs, got %d then %d", version1, version2)
	}
}
