package repository

import (
	"context"

	"focusos/internal/types"
)

// CustomTemplates returns the user-defined templates in creation order
func (r *Repository) CustomTemplates(ctx context.Context) ([]types.PomodoroTemplate, error) {
	var templates []types.PomodoroTemplate
	if _, err := getJSON(ctx, r, "CustomTemplates", KeyPomodoroTemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// UpdateCustomTemplates replaces the template list with fn's result atomically
func (r *Repository) UpdateCustomTemplates(ctx context.Context, fn func([]types.PomodoroTemplate) ([]types.PomodoroTemplate, error)) error {
	return updateJSON(ctx, r, "UpdateCustomTemplates", KeyPomodoroTemplates, func(templates *[]types.PomodoroTemplate) error {
		next, err := fn(*templates)
		if err != nil {
			return err
		}
		if next == nil {
			next = []types.PomodoroTemplate{}
		}
		*templates = next
		return nil
	})
}

// PomodoroState returns the active timer, or nil when idle
func (r *Repository) PomodoroState(ctx context.Context) (*types.PomodoroState, error) {
	var state types.PomodoroState
	found, err := getJSON(ctx, r, "PomodoroState", KeyPomodoroState, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// SavePomodoroState persists the active timer
func (r *Repository) SavePomodoroState(ctx context.Context, state types.PomodoroState) error {
	return r.setJSON(ctx, "SavePomodoroState", KeyPomodoroState, state)
}

// ClearPomodoroState removes the active timer
func (r *Repository) ClearPomodoroState(ctx context.Context) error {
	return r.store.Remove(ctx, KeyPomodoroState)
}

// AppendSession adds session to the list for the local date of its start time
func (r *Repository) AppendSession(ctx context.Context, session types.PomodoroSession) error {
	key := SessionsKey(types.DateKey(types.FromMillis(session.StartTime)))
	return updateJSON(ctx, r, "AppendSession", key, func(sessions *[]types.PomodoroSession) error {
		*sessions = append(*sessions, session)
		return nil
	})
}

// SessionKeys lists every session list key in ascending date order
func (r *Repository) SessionKeys(ctx context.Context) ([]string, error) {
	return r.store.Keys(ctx, SessionsKeyPrefix)
}

// SessionsByKey returns the sessions stored under key in append order
func (r *Repository) SessionsByKey(ctx context.Context, key string) ([]types.PomodoroSession, error) {
	var sessions []types.PomodoroSession
	if _, err := getJSON(ctx, r, "SessionsByKey", key, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
