package services

import (
	"context"

	"focusos/internal/achievements"
	"focusos/internal/types"
)

// EventSink receives achievement events raised by the timer and tracker.
// *achievements.Evaluator implements it.
type EventSink interface {
	Evaluate(ctx context.Context, event achievements.EventType, payload achievements.Payload) ([]string, error)
}

// TemplateStore persists custom Pomodoro templates
type TemplateStore interface {
	CustomTemplates(ctx context.Context) ([]types.PomodoroTemplate, error)
	UpdateCustomTemplates(ctx context.Context, fn func([]types.PomodoroTemplate) ([]types.PomodoroTemplate, error)) error
}

// SessionStore persists Pomodoro session lists
type SessionStore interface {
	AppendSession(ctx context.Context, session types.PomodoroSession) error
	SessionKeys(ctx context.Context) ([]string, error)
	SessionsByKey(ctx context.Context, key string) ([]types.PomodoroSession, error)
}

// TimerStore persists the active timer and reads the cycle setting
type TimerStore interface {
	PomodoroState(ctx context.Context) (*types.PomodoroState, error)
	SavePomodoroState(ctx context.Context, state types.PomodoroState) error
	ClearPomodoroState(ctx context.Context) error
	Settings(ctx context.Context) (types.Settings, error)
}

// DailyStore reads daily buckets
type DailyStore interface {
	GetDaily(ctx context.Context, date string) (types.DailyRecord, error)
	DailyKeys(ctx context.Context) ([]string, error)
	AllDaily(ctx context.Context) (map[string]types.DailyRecord, error)
}

// SiteStore reads the per-site user maps
type SiteStore interface {
	SiteCategories(ctx context.Context) (map[string]types.SiteCategory, error)
	PinnedSites(ctx context.Context) ([]string, error)
}

// TrackerStore is everything the tracker reads and writes
type TrackerStore interface {
	DailyStore
	SiteStore
	UpdateDaily(ctx context.Context, date string, fn func(types.DailyRecord) error) error
	Settings(ctx context.Context) (types.Settings, error)
	SaveSettings(ctx context.Context, settings types.Settings) error
	Whitelist(ctx context.Context) ([]string, error)
	UpdateWhitelist(ctx context.Context, fn func([]string) []string) error
	UpdatePinnedSites(ctx context.Context, fn func([]string) []string) error
	SetSiteCategory(ctx context.Context, domain string, category types.SiteCategory) error
	SiteLimits(ctx context.Context) (map[string]int, error)
	SetSiteLimit(ctx context.Context, domain string, minutes int) error
}
