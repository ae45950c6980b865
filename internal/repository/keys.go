package repository

import (
	"regexp"
	"time"

	"focusos/internal/types"
)

// Persisted key space
const (
	KeyAchievementState  = "achievement_state"
	KeyPomodoroTemplates = "pomodoroTemplates"
	KeyPomodoroState     = "pomodoroState"
	KeySettings          = "settings"
	KeyWhitelist         = "whitelist"
	KeySiteCategories    = "siteCategories"
	KeyPinnedSites       = "pinnedSites"
	KeySiteLimits        = "siteLimits"

	SessionsKeyPrefix = "pomodoroSessions-"
)

var dailyKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SessionsKey returns the session list key for a YYYY-MM-DD date
func SessionsKey(date string) string {
	return SessionsKeyPrefix + date
}

// DailyKey returns the daily bucket key for t in its location
func DailyKey(t time.Time) string {
	return types.DateKey(t)
}

// IsDailyKey reports whether key names a daily bucket
func IsDailyKey(key string) bool {
	return dailyKeyPattern.MatchString(key)
}
