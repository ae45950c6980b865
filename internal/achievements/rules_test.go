package achievements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusos/internal/types"
)

// 2024-06-05 is a Wednesday, 2024-06-08 a Saturday
var (
	wednesdayNoon = time.Date(2024, 6, 5, 12, 0, 0, 0, time.Local)
	saturdayNoon  = time.Date(2024, 6, 8, 12, 0, 0, 0, time.Local)
)

func TestMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		event    EventType
		payload  Payload
		expected []string
	}{
		{
			name:     "first pomodoro",
			event:    EventPomodoroComplete,
			payload:  Payload{TotalSessions: 1, Phase: types.PhaseWork, At: wednesdayNoon},
			expected: []string{"first-step"},
		},
		{
			name:     "break with many sessions",
			event:    EventPomodoroComplete,
			payload:  Payload{TotalSessions: 10, ConsecutiveSessions: 4, Phase: types.PhaseBreak, At: wednesdayNoon},
			expected: []string{"first-step", "focus-master", "break-time", "deep-focus"},
		},
		{
			name:     "eight hours tracked",
			event:    EventTimeTracked,
			payload:  Payload{TotalMinutes: 480, At: wednesdayNoon},
			expected: []string{"time-flies", "marathon-runner", "productivity-god"},
		},
		{
			name:     "early morning tracking",
			event:    EventTimeTracked,
			payload:  Payload{TotalMinutes: 1, At: time.Date(2024, 6, 5, 7, 59, 0, 0, time.Local)},
			expected: []string{"early-bird"},
		},
		{
			name:    "early morning with no time",
			event:   EventTimeTracked,
			payload: Payload{TotalMinutes: 0, At: time.Date(2024, 6, 5, 7, 0, 0, 0, time.Local)},
		},
		{
			name:     "late night tracking",
			event:    EventTimeTracked,
			payload:  Payload{TotalMinutes: 5, At: time.Date(2024, 6, 5, 22, 0, 0, 0, time.Local)},
			expected: []string{"night-owl"},
		},
		{
			name:     "many domains",
			event:    EventTimeTracked,
			payload:  Payload{TotalMinutes: 30, DomainsVisited: 50, At: wednesdayNoon},
			expected: []string{"click-master"},
		},
		{
			name:     "weekend open",
			event:    EventAppOpened,
			payload:  Payload{At: saturdayNoon},
			expected: []string{"weekend-warrior"},
		},
		{
			name:     "midnight misc",
			event:    EventMisc,
			payload:  Payload{At: time.Date(2024, 6, 5, 0, 30, 0, 0, time.Local), ConsecutiveDays: 7},
			expected: []string{"midnight-coder", "streak-starter", "daily-habit"},
		},
		{
			name:    "four logo clicks",
			event:   EventLogoClick,
			payload: Payload{ClickCount: 4},
		},
		{
			name:     "five logo clicks",
			event:    EventLogoClick,
			payload:  Payload{ClickCount: 5},
			expected: []string{"the-glitch"},
		},
		{
			name:     "whitelist cleared",
			event:    EventWhitelistCleared,
			expected: []string{"clean-slate"},
		},
		{
			name:     "limit reached",
			event:    EventLimitReached,
			expected: []string{"guardian"},
		},
		{
			name:  "unknown event",
			event: EventType("unknown"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Matching(tt.event, tt.payload))
		})
	}
}

func TestRules_ReferenceCatalog(t *testing.T) {
	t.Parallel()

	for _, rule := range Rules {
		_, ok := Lookup(rule.ID)
		assert.True(t, ok, "rule %s is not in the catalog", rule.ID)
	}
}

func TestParseEventType(t *testing.T) {
	t.Parallel()

	e, ok := ParseEventType("logo-click")
	assert.True(t, ok)
	assert.Equal(t, EventLogoClick, e)

	_, ok = ParseEventType("bogus")
	assert.False(t, ok)
}

func TestCatalog_Categories(t *testing.T) {
	t.Parallel()

	expected := map[Category][]string{
		CategoryPomodoro: {"first-step", "focus-master", "break-time", "deep-focus"},
		CategoryTime:     {"time-flies", "marathon-runner", "early-bird", "night-owl", "productivity-god"},
		CategoryStreak:   {"streak-starter", "daily-habit", "weekend-warrior"},
		CategoryMisc:     {"click-master", "guardian", "super-user", "the-glitch", "midnight-coder", "clean-slate"},
	}

	count := 0
	for category, ids := range expected {
		for _, id := range ids {
			a, ok := Lookup(id)
			if assert.True(t, ok, "%s is not in the catalog", id) {
				assert.Equal(t, category, a.Category, "category of %s", id)
			}
			count++
		}
	}
	assert.Equal(t, len(Catalog), count)
}
