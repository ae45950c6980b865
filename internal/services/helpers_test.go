package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"focusos/internal/achievements"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/repository"
)

// wednesday 2024-06-05 10:00 local
var testNow = time.Date(2024, 6, 5, 10, 0, 0, 0, time.Local)

type raisedEvent struct {
	event   achievements.EventType
	payload achievements.Payload
}

// recordingEvents captures events instead of evaluating them
type recordingEvents struct {
	mu     sync.Mutex
	events []raisedEvent
}

func (r *recordingEvents) Evaluate(_ context.Context, event achievements.EventType, payload achievements.Payload) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, raisedEvent{event: event, payload: payload})
	return nil, nil
}

func (r *recordingEvents) of(event achievements.EventType) []raisedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []raisedEvent
	for _, e := range r.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	repo      *repository.Repository
	clock     *clockwork.FakeClock
	events    *recordingEvents
	templates *TemplateService
	sessions  *SessionRecorder
	timer     *PomodoroTimer
	tracker   *Tracker
	agg       *Aggregator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logging.NopLogger{}
	repo := repository.New(repository.NewMemoryStore(), logger)
	clock := clockwork.NewFakeClockAt(testNow)
	events := &recordingEvents{}

	templates := NewTemplateService(repo, logger)
	sessions := NewSessionRecorder(repo, clock, logger, nil)

	return &testEnv{
		repo:      repo,
		clock:     clock,
		events:    events,
		templates: templates,
		sessions:  sessions,
		timer:     NewPomodoroTimer(repo, templates, sessions, logger, WithTimerClock(clock), WithTimerEvents(events)),
		tracker:   NewTracker(repo, logger, WithTrackerClock(clock), WithTrackerEvents(events)),
		agg:       NewAggregator(repo, clock),
	}
}
