package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	repoerrors "focusos/internal/infrastructure/errors"
)

// MemoryStore is an in-process Store used by tests and ephemeral runs
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	modified time.Time
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ ChangeTracker = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, repoerrors.WrapStoreError("Get", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, repoerrors.HandleNotFound("Get", "key", key)
	}
	return slices.Clone(value), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return repoerrors.WrapStoreError("Set", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)
	m.modified = time.Now()
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return repoerrors.WrapStoreError("Remove", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; ok {
		delete(m.data, key)
		m.modified = time.Now()
	}
	return nil
}

func (m *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, repoerrors.WrapStoreError("Keys", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return repoerrors.WrapStoreError("Update", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var current []byte
	if v, ok := m.data[key]; ok {
		current = slices.Clone(v)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	m.data[key] = slices.Clone(next)
	m.modified = time.Now()
	return nil
}

// LastModified returns the time of the last write, or "" if never written
func (m *MemoryStore) LastModified(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.modified.IsZero() {
		return "", nil
	}
	return m.modified.Format(time.RFC3339Nano), nil
}
