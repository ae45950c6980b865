package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focusos/internal/database"
	queries "focusos/internal/database/generated"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
)

// SQLiteStore implements Store over the kv_store table
type SQLiteStore struct {
	db          *sql.DB
	queries     *queries.Queries
	dbService   database.Service
	retryConfig *repoerrors.RetryConfig
	logger      logging.Logger
	now         func() time.Time
}

var (
	_ Store         = (*SQLiteStore)(nil)
	_ ChangeTracker = (*SQLiteStore)(nil)
)

// NewSQLiteStore creates a store on top of a connected database service
func NewSQLiteStore(dbService database.Service, logger logging.Logger) *SQLiteStore {
	return NewSQLiteStoreWithConfig(dbService, nil, logger)
}

// NewSQLiteStoreWithConfig creates a store with a custom retry configuration
func NewSQLiteStoreWithConfig(dbService database.Service, retryConfig *repoerrors.RetryConfig, logger logging.Logger) *SQLiteStore {
	if retryConfig == nil {
		retryConfig = repoerrors.DefaultRetryConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteStore{
		db:          dbService.DB(),
		queries:     dbService.GetQueries(),
		dbService:   dbService,
		retryConfig: retryConfig,
		logger:      logger,
		now:         time.Now,
	}
}

// NewSQLiteStoreWithPreparedQueries creates a store that uses the service's prepared statements
func NewSQLiteStoreWithPreparedQueries(ctx context.Context, dbService database.Service, logger logging.Logger) (*SQLiteStore, error) {
	preparedQueries, err := dbService.GetPreparedQueries(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteStoreWithPreparedQueries: failed to get prepared queries: %w", err)
	}

	store := NewSQLiteStore(dbService, logger)
	store.queries = preparedQueries
	return store, nil
}

// wrap classifies err and logs it unless the store layer will retry it
func (s *SQLiteStore) wrap(op, key string, err error) error {
	storeErr := repoerrors.NewStoreErrorWithContext(op, err, repoerrors.ClassifyError(err), map[string]string{
		"key": key,
	})
	if storeErr.IsRetryable() {
		s.logger.Debug("Retryable error in "+op, "error", err, "key", key)
	} else {
		logging.LogError(s.logger, storeErr, op, nil)
	}
	return storeErr
}

// Get returns the raw value stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	var value string

	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		v, err := s.queries.GetValue(ctx, key)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repoerrors.HandleNotFound("Get", "key", key)
			}
			return s.wrap("Get", key, err)
		}
		value = v
		return nil
	}, "Get")
	if err != nil {
		return nil, err
	}

	logging.LogOperation(s.logger, "Get", time.Since(start), map[string]any{"key": key})
	return []byte(value), nil
}

// Set stores value under key, replacing any previous value
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()

	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		err := s.queries.UpsertValue(ctx, queries.UpsertValueParams{
			Key:       key,
			Value:     string(value),
			UpdatedAt: s.now().UTC(),
		})
		if err != nil {
			return s.wrap("Set", key, err)
		}
		return nil
	}, "Set")

	if err == nil {
		logging.LogOperation(s.logger, "Set", time.Since(start), map[string]any{
			"key":   key,
			"bytes": len(value),
		})
	}
	return err
}

// Remove deletes key; absent keys are ignored
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	start := time.Now()
	var removed int64

	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		n, err := s.queries.DeleteValue(ctx, key)
		if err != nil {
			return s.wrap("Remove", key, err)
		}
		removed = n
		return nil
	}, "Remove")

	if err == nil {
		logging.LogOperation(s.logger, "Remove", time.Since(start), map[string]any{
			"key":     key,
			"removed": removed,
		})
	}
	return err
}

// Keys lists keys starting with prefix
func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	var keys []string

	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		k, err := s.queries.ListKeysByPrefix(ctx, prefix)
		if err != nil {
			return s.wrap("Keys", prefix, err)
		}
		keys = k
		return nil
	}, "Keys")
	if err != nil {
		return nil, err
	}

	logging.LogOperation(s.logger, "Keys", time.Since(start), map[string]any{
		"prefix": prefix,
		"count":  len(keys),
	})
	return keys, nil
}

// LastModified returns the newest write timestamp, or "" for an empty store
func (s *SQLiteStore) LastModified(ctx context.Context) (string, error) {
	var last string
	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		v, err := s.queries.LastUpdated(ctx)
		if err != nil {
			return s.wrap("LastModified", "", err)
		}
		last = v
		return nil
	}, "LastModified")
	return last, err
}
