package types

import "slices"

// AchievementState is the persisted unlock record.
// TotalXP always equals the sum of XP over UnlockedIDs.
type AchievementState struct {
	UnlockedIDs []string `json:"unlockedIds"`
	TotalXP     int      `json:"totalXp"`
	LastUpdated int64    `json:"lastUpdated"` // unix milliseconds
}

// IsUnlocked reports whether id has been unlocked
func (s AchievementState) IsUnlocked(id string) bool {
	return slices.Contains(s.UnlockedIDs, id)
}

// XPProgress describes progress within the current level
type XPProgress struct {
	Current int `json:"current"`
	Next    int `json:"next"`
	Level   int `json:"level"`
}
