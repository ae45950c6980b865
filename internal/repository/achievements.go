package repository

import (
	"context"

	"focusos/internal/types"
)

// AchievementState returns the unlock record, empty when nothing is unlocked
func (r *Repository) AchievementState(ctx context.Context) (types.AchievementState, error) {
	state := types.AchievementState{UnlockedIDs: []string{}}
	if _, err := getJSON(ctx, r, "AchievementState", KeyAchievementState, &state); err != nil {
		return types.AchievementState{}, err
	}
	if state.UnlockedIDs == nil {
		state.UnlockedIDs = []string{}
	}
	return state, nil
}

// UpdateAchievementState mutates the unlock record atomically
func (r *Repository) UpdateAchievementState(ctx context.Context, fn func(*types.AchievementState) error) error {
	return updateJSON(ctx, r, "UpdateAchievementState", KeyAchievementState, func(state *types.AchievementState) error {
		if state.UnlockedIDs == nil {
			state.UnlockedIDs = []string{}
		}
		return fn(state)
	})
}
