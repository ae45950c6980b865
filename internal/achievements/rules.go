package achievements

import (
	"time"

	"focusos/internal/types"
)

// EventType names something that happened which may unlock achievements
type EventType string

const (
	EventPomodoroComplete EventType = "pomodoro-complete"
	EventTimeTracked      EventType = "time-tracked"
	EventAppOpened        EventType = "app-opened"
	EventMisc             EventType = "misc"
	EventLogoClick        EventType = "logo-click"
	EventWhitelistCleared EventType = "whitelist-cleared"
	EventLimitReached     EventType = "limit-reached"
)

// ParseEventType validates an event name
func ParseEventType(s string) (EventType, bool) {
	switch e := EventType(s); e {
	case EventPomodoroComplete, EventTimeTracked, EventAppOpened, EventMisc,
		EventLogoClick, EventWhitelistCleared, EventLimitReached:
		return e, true
	}
	return "", false
}

// Payload carries the event fields predicates read. Absent fields are zero.
type Payload struct {
	TotalSessions       int         `json:"totalSessions,omitempty"`
	ConsecutiveSessions int         `json:"consecutiveSessions,omitempty"`
	Phase               types.Phase `json:"phase,omitempty"`
	TotalMinutes        int         `json:"totalMinutes,omitempty"`
	DomainsVisited      int         `json:"domainsVisited,omitempty"`
	ConsecutiveDays     int         `json:"consecutiveDays,omitempty"`
	ClickCount          int         `json:"count,omitempty"`

	// At is the local time of the event; zero means now
	At time.Time `json:"-"`
}

// Rule unlocks ID when an event in Events satisfies When
type Rule struct {
	Events []EventType
	ID     string
	When   func(Payload) bool
}

func always(Payload) bool { return true }

var (
	pomodoroEvents = []EventType{EventPomodoroComplete}
	trackedEvents  = []EventType{EventTimeTracked}
	openedEvents   = []EventType{EventAppOpened, EventMisc}
)

// Rules is evaluated in order; several rules may fire for one event
var Rules = []Rule{
	{Events: pomodoroEvents, ID: "first-step", When: always},
	{Events: pomodoroEvents, ID: "focus-master", When: func(p Payload) bool { return p.TotalSessions >= 10 }},
	{Events: pomodoroEvents, ID: "break-time", When: func(p Payload) bool { return p.Phase == types.PhaseBreak }},
	{Events: pomodoroEvents, ID: "deep-focus", When: func(p Payload) bool { return p.ConsecutiveSessions >= 4 }},

	{Events: trackedEvents, ID: "time-flies", When: func(p Payload) bool { return p.TotalMinutes >= 60 }},
	{Events: trackedEvents, ID: "marathon-runner", When: func(p Payload) bool { return p.TotalMinutes >= 300 }},
	{Events: trackedEvents, ID: "productivity-god", When: func(p Payload) bool { return p.TotalMinutes >= 480 }},
	{Events: trackedEvents, ID: "early-bird", When: func(p Payload) bool { return p.At.Hour() < 8 && p.TotalMinutes > 0 }},
	{Events: trackedEvents, ID: "night-owl", When: func(p Payload) bool { return p.At.Hour() >= 22 && p.TotalMinutes > 0 }},
	{Events: trackedEvents, ID: "click-master", When: func(p Payload) bool { return p.DomainsVisited >= 50 }},

	// weekend-warrior only checks the current day
	{Events: openedEvents, ID: "weekend-warrior", When: func(p Payload) bool {
		day := p.At.Weekday()
		return day == time.Saturday || day == time.Sunday
	}},
	{Events: openedEvents, ID: "midnight-coder", When: func(p Payload) bool { return p.At.Hour() == 0 }},
	{Events: openedEvents, ID: "streak-starter", When: func(p Payload) bool { return p.ConsecutiveDays >= 3 }},
	{Events: openedEvents, ID: "daily-habit", When: func(p Payload) bool { return p.ConsecutiveDays >= 7 }},

	{Events: []EventType{EventLogoClick}, ID: "the-glitch", When: func(p Payload) bool { return p.ClickCount >= 5 }},
	{Events: []EventType{EventWhitelistCleared}, ID: "clean-slate", When: always},
	{Events: []EventType{EventLimitReached}, ID: "guardian", When: always},
}

// superUserXP is the total XP that unlocks super-user after any event
const superUserXP = 1000

// Matching returns the ids of rules that fire for event and payload, in rule order
func Matching(event EventType, payload Payload) []string {
	var ids []string
	for _, rule := range Rules {
		if !handles(rule, event) {
			continue
		}
		if rule.When(payload) {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}

func handles(rule Rule, event EventType) bool {
	for _, e := range rule.Events {
		if e == event {
			return true
		}
	}
	return false
}
