package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	queries "focusos/internal/database/generated"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
)

// WithTransaction runs fn against a store bound to a single transaction.
// The whole transaction is retried when SQLite reports lock contention.
func (s *SQLiteStore) WithTransaction(ctx context.Context, fn func(tx *SQLiteStore) error) error {
	start := time.Now()

	err := repoerrors.WithRetryContext(ctx, s.retryConfig, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return s.wrap("WithTransaction.Begin", "", err)
		}

		committed := false
		defer func() {
			if committed {
				return
			}
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.Debug("Failed to rollback transaction", "rollback_error", rollbackErr)
			}
		}()

		// Retries happen around the whole transaction, not inside it
		txStore := &SQLiteStore{
			db:          s.db,
			queries:     s.queries.WithTx(tx),
			dbService:   s.dbService,
			retryConfig: &repoerrors.RetryConfig{MaxAttempts: 1},
			logger:      s.logger,
			now:         s.now,
		}

		if err := fn(txStore); err != nil {
			s.logger.Debug("Transaction function failed", "error", err)
			return err
		}

		if err := tx.Commit(); err != nil {
			return s.wrap("WithTransaction.Commit", "", err)
		}
		committed = true
		return nil
	}, "WithTransaction")

	if err == nil {
		logging.LogOperation(s.logger, "WithTransaction", time.Since(start), nil)
	}
	return err
}

// Update reads key, applies fn and writes the result in one transaction
func (s *SQLiteStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.WithTransaction(ctx, func(tx *SQLiteStore) error {
		var current []byte
		value, err := tx.queries.GetValue(ctx, key)
		switch {
		case err == nil:
			current = []byte(value)
		case errors.Is(err, sql.ErrNoRows):
		default:
			return tx.wrap("Update.Get", key, err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if err := tx.queries.UpsertValue(ctx, queries.UpsertValueParams{
			Key:       key,
			Value:     string(next),
			UpdatedAt: tx.now().UTC(),
		}); err != nil {
			return tx.wrap("Update.Set", key, err)
		}
		return nil
	})
}
