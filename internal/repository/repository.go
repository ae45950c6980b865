package repository

import (
	"context"
	"encoding/json"
	"time"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
)

// Repository provides typed access to every key family on top of a Store
type Repository struct {
	store  Store
	logger logging.Logger
}

// New creates a repository over store
func New(store Store, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Repository{store: store, logger: logger}
}

// Store returns the underlying key-value store
func (r *Repository) Store() Store {
	return r.store
}

// LastModified reports the store's last write marker, or "" when the store cannot tell
func (r *Repository) LastModified(ctx context.Context) (string, error) {
	if tracker, ok := r.store.(ChangeTracker); ok {
		return tracker.LastModified(ctx)
	}
	return "", nil
}

// getJSON decodes key into dst. found is false when the key is absent.
func getJSON[T any](ctx context.Context, r *Repository, op, key string, dst *T) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if repoerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		serErr := repoerrors.HandleSerializationError(op, key, err)
		logging.LogError(r.logger, serErr, op, nil)
		return false, serErr
	}
	return true, nil
}

func (r *Repository) setJSON(ctx context.Context, op, key string, v any) error {
	start := time.Now()
	raw, err := json.Marshal(v)
	if err != nil {
		return repoerrors.HandleSerializationError(op, key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return err
	}
	logging.LogOperation(r.logger, op, time.Since(start), map[string]any{"key": key})
	return nil
}

// updateJSON applies fn to the decoded value of key inside one store update.
// fn sees the zero value when the key is absent.
func updateJSON[T any](ctx context.Context, r *Repository, op, key string, fn func(*T) error) error {
	start := time.Now()
	err := r.store.Update(ctx, key, func(current []byte) ([]byte, error) {
		var value T
		if current != nil {
			if err := json.Unmarshal(current, &value); err != nil {
				return nil, repoerrors.HandleSerializationError(op, key, err)
			}
		}
		if err := fn(&value); err != nil {
			return nil, err
		}
		next, err := json.Marshal(value)
		if err != nil {
			return nil, repoerrors.HandleSerializationError(op, key, err)
		}
		return next, nil
	})
	if err != nil {
		return err
	}
	logging.LogOperation(r.logger, op, time.Since(start), map[string]any{"key": key})
	return nil
}
