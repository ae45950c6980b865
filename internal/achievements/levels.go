package achievements

import "focusos/internal/types"

// LevelThresholds is the total XP at which each level starts
var LevelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

// Level returns the 1-based level for xp. Level 1 starts at 0 XP and the
// last level is len(LevelThresholds).
func Level(xp int) int {
	for i, threshold := range LevelThresholds {
		if xp < threshold {
			return i
		}
	}
	return len(LevelThresholds)
}

// Progress returns XP earned within the current level and the span of that
// level. At the top level Next is 0.
func Progress(xp int) types.XPProgress {
	xp = max(xp, 0)
	level := Level(xp)
	base := LevelThresholds[level-1]

	next := LevelThresholds[len(LevelThresholds)-1]
	if level < len(LevelThresholds) {
		next = LevelThresholds[level]
	}

	return types.XPProgress{
		Current: xp - base,
		Next:    next - base,
		Level:   level,
	}
}
