package database

import (
	"context"
	"database/sql"

	queries "focusos/internal/database/generated"
)

// Service abstracts connection management, migrations and maintenance of
// the key-value database
type Service interface {
	Connect(ctx context.Context, config *Config) error
	Close() error
	Health(ctx context.Context) error

	DB() *sql.DB
	GetQueries() *queries.Queries
	GetPreparedQueries(ctx context.Context) (*queries.Queries, error)

	Migrate(ctx context.Context) error
	GetMigrationVersion(ctx context.Context) (int64, error)

	Optimize(ctx context.Context) error
	GetStats() sql.DBStats
}

// MigrationManager handles schema evolution
type MigrationManager interface {
	RunMigrations(ctx context.Context) error
	GetCurrentVersion(ctx context.Context) (int64, error)
	ValidateMigrations() error
}
