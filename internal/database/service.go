package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	queries "focusos/internal/database/generated"
	dberrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteService implements Service for SQLite.
//
// Lifecycle: NewSQLiteService, Connect, optionally Migrate, use GetQueries or
// GetPreparedQueries, then Close to release the pool and prepared statements.
type SQLiteService struct {
	db              *sql.DB
	config          *Config
	migrationRunner MigrationManager
	queries         *queries.Queries
	prepared        *queries.Queries
	preparedMu      sync.RWMutex // guards lazy creation of prepared
	logger          logging.Logger
}

var _ Service = (*SQLiteService)(nil)

// NewSQLiteService creates a new SQLite database service
func NewSQLiteService(logger logging.Logger) *SQLiteService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteService{
		logger: logger,
	}
}

// Connect opens the database and, when configured, applies migrations
func (s *SQLiteService) Connect(ctx context.Context, config *Config) error {
	if config == nil {
		return dberrors.HandleValidationError("Connect", "config", "nil", "configuration is required")
	}

	// Reconnecting releases the previous pool first
	if s.db != nil {
		if err := s.Close(); err != nil {
			s.logger.Error("Failed to close existing database connection", "error", err)
		}
	}

	s.config = config

	db, err := sql.Open("sqlite3", config.GetConnectionString())
	if err != nil {
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to open database: %v", err))
	}

	s.configureConnectionPool(db, config)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to ping database: %v", err))
	}

	s.db = db
	s.queries = queries.New(db)
	s.migrationRunner = NewMigrationRunner(db, s.logger)

	s.logger.Debug("Connected to SQLite database", "path", config.Path)

	if config.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return err
		}
	}
	return nil
}

// Close closes prepared statements and the connection pool
func (s *SQLiteService) Close() error {
	if s.db == nil {
		return nil
	}

	s.preparedMu.Lock()
	if s.prepared != nil {
		if err := s.prepared.Close(); err != nil {
			s.logger.Error("Failed to close prepared statements", "error", err)
		}
		s.prepared = nil
	}
	s.preparedMu.Unlock()

	err := s.db.Close()

	s.db = nil
	s.queries = nil
	s.migrationRunner = nil

	if err != nil {
		return dberrors.HandleConnectionError("Close", fmt.Sprintf("failed to close database: %v", err))
	}

	s.logger.Debug("Closed SQLite database connection")
	return nil
}

// Migrate validates and applies the embedded migrations
func (s *SQLiteService) Migrate(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Migrate", "database not connected")
	}
	if s.migrationRunner == nil {
		return dberrors.HandleValidationError("Migrate", "migrationRunner", "nil", "migration runner not initialized")
	}

	if err := s.migrationRunner.ValidateMigrations(); err != nil {
		return dberrors.WrapStoreErrorWithContext("Migrate", err, map[string]string{"phase": "validation"})
	}

	if err := s.migrationRunner.RunMigrations(ctx); err != nil {
		return dberrors.WrapStoreErrorWithContext("Migrate", err, map[string]string{"phase": "execution"})
	}

	return nil
}

// Health pings the database and runs a trivial query
func (s *SQLiteService) Health(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Health", "database not connected")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return dberrors.WrapStoreErrorWithContext("Health", err, map[string]string{"phase": "ping"})
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return dberrors.WrapStoreErrorWithContext("Health", err, map[string]string{"phase": "query"})
	}
	if result != 1 {
		return dberrors.HandleValidationError("Health", "query_result", fmt.Sprintf("%d", result), "expected result 1")
	}

	return nil
}

// DB returns the underlying connection pool
func (s *SQLiteService) DB() *sql.DB {
	return s.db
}

// GetQueries returns the unprepared queries instance
func (s *SQLiteService) GetQueries() *queries.Queries {
	return s.queries
}

// GetMigrationVersion returns the current migration version
func (s *SQLiteService) GetMigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, dberrors.HandleConnectionError("GetMigrationVersion", "database not connected")
	}
	if s.migrationRunner == nil {
		return 0, dberrors.HandleValidationError("GetMigrationVersion", "migrationRunner", "nil", "migration runner not initialized")
	}

	version, err := s.migrationRunner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, dberrors.WrapStoreError("GetMigrationVersion", err)
	}
	return version, nil
}

// GetPreparedQueries lazily prepares every statement once. The statements
// are owned by the service and closed by Close.
func (s *SQLiteService) GetPreparedQueries(ctx context.Context) (*queries.Queries, error) {
	if s.db == nil {
		return nil, dberrors.HandleConnectionError("GetPreparedQueries", "database not connected")
	}

	s.preparedMu.RLock()
	if s.prepared != nil {
		prepared := s.prepared
		s.preparedMu.RUnlock()
		return prepared, nil
	}
	s.preparedMu.RUnlock()

	s.preparedMu.Lock()
	defer s.preparedMu.Unlock()

	if s.prepared != nil {
		return s.prepared, nil
	}

	preparedQueries, err := queries.Prepare(ctx, s.db)
	if err != nil {
		return nil, dberrors.WrapStoreError("GetPreparedQueries", err)
	}

	s.prepared = preparedQueries
	return s.prepared, nil
}

// GetStats returns connection pool statistics
func (s *SQLiteService) GetStats() sql.DBStats {
	if s.db == nil {
		return sql.DBStats{}
	}
	return s.db.Stats()
}

// Optimize runs ANALYZE, a WAL checkpoint and VACUUM
func (s *SQLiteService) Optimize(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Optimize", "database not connected")
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return dberrors.WrapStoreErrorWithContext("Optimize", err, map[string]string{"phase": "analyze"})
	}

	// Ignored on non-WAL journals
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("wal_checkpoint failed", "error", err)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return dberrors.WrapStoreErrorWithContext("Optimize", err, map[string]string{"phase": "vacuum"})
	}

	s.logger.Info("Database optimization completed")
	return nil
}

func (s *SQLiteService) configureConnectionPool(db *sql.DB, config *Config) {
	// Without WAL, concurrent connections contend for the file lock
	if config.ForceSingleConnection || !strings.EqualFold(config.JournalMode, "WAL") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.logger.Debug("Configured SQLite for single connection mode",
			"journalMode", config.JournalMode, "forced", config.ForceSingleConnection)
	} else {
		maxConns := config.MaxConnections
		if maxConns <= 0 || maxConns > 4 {
			maxConns = 4
		}
		idleConns := max(min(config.MaxIdleConns, maxConns), 1)

		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(idleConns)
		s.logger.Debug("Configured SQLite connection pool (WAL mode)",
			"maxOpenConns", maxConns, "maxIdleConns", idleConns)
	}

	// An in-memory database disappears with its last connection
	if config.IsInMemory() {
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
}
