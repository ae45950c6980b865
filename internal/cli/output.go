package cli

import (
	"fmt"
	"strings"

	"focusos/internal/export"
	"focusos/internal/tui"
	"focusos/internal/types"
)

// formatMillis renders a millisecond duration like the export files do
func formatMillis(ms int64) string {
	return export.FormatSeconds((ms + 500) / 1000)
}

// describeTimer is the one-line timer status
func describeTimer(state *types.PomodoroState) string {
	if state == nil {
		return "Timer idle"
	}

	cycle := fmt.Sprintf("cycle %d", state.CyclesCompleted+1)
	if state.TargetCycles > 0 {
		cycle = fmt.Sprintf("cycle %d/%d", min(state.CyclesCompleted+1, state.TargetCycles), state.TargetCycles)
	}

	line := fmt.Sprintf("%s: %s %s remaining, %s", state.TemplateName, state.CurrentPhase,
		tui.FormatRemaining(state.RemainingMs), cycle)
	if state.IsPaused {
		line += " (paused)"
	}
	return line
}

// progressBar draws current/total as a fixed-width bar
func progressBar(current, total, width int) string {
	if total <= 0 {
		return strings.Repeat("█", width)
	}
	filled := min(max(current*width/total, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
