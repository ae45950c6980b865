package services

import (
	"context"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/repository"
	"focusos/internal/types"
)

// SessionRecorder writes and queries Pomodoro sessions
type SessionRecorder struct {
	store    SessionStore
	clock    clockwork.Clock
	logger   logging.Logger
	recorder metrics.Recorder
}

// NewSessionRecorder creates a session recorder
func NewSessionRecorder(store SessionStore, clock clockwork.Clock, logger logging.Logger, recorder metrics.Recorder) *SessionRecorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SessionRecorder{store: store, clock: clock, logger: logger, recorder: metrics.OrNoop(recorder)}
}

// RecordSession appends session to the list for its start date.
// Sessions are not deduplicated.
func (r *SessionRecorder) RecordSession(ctx context.Context, session types.PomodoroSession) error {
	start := time.Now()
	if err := r.store.AppendSession(ctx, session); err != nil {
		logging.LogError(r.logger, err, "RecordSession", map[string]interface{}{"session_id": session.ID})
		return err
	}

	r.recorder.IncSessionRecorded(session.Interrupted)
	logging.LogOperation(r.logger, "RecordSession", time.Since(start), map[string]interface{}{
		"session_id":  session.ID,
		"template":    session.TemplateID,
		"cycles":      session.CompletedCycles,
		"interrupted": session.Interrupted,
	})
	return nil
}

// Sessions returns sessions whose start date is within [from, to] (YYYY-MM-DD,
// empty means unbounded), newest first
func (r *SessionRecorder) Sessions(ctx context.Context, from, to string) ([]types.PomodoroSession, error) {
	keys, err := r.store.SessionKeys(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []types.PomodoroSession
	for _, key := range keys {
		date := key[len(repository.SessionsKeyPrefix):]
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		list, err := r.store.SessionsByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, list...)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime > sessions[j].StartTime
	})
	return sessions, nil
}

// CompletedCycles returns the number of work phases completed across all sessions
func (r *SessionRecorder) CompletedCycles(ctx context.Context) (int, error) {
	sessions, err := r.Sessions(ctx, "", "")
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range sessions {
		total += s.CompletedCycles
	}
	return total, nil
}

// Stats summarizes every recorded session. Focus and break time count
// only sessions that were not interrupted.
func (r *SessionRecorder) Stats(ctx context.Context) (types.PomodoroStats, error) {
	sessions, err := r.Sessions(ctx, "", "")
	if err != nil {
		return types.PomodoroStats{}, err
	}

	today := types.DateKey(r.clock.Now())
	stats := types.PomodoroStats{
		TotalSessions:    len(sessions),
		MostUsedTemplate: "None",
	}

	counts := make(map[string]int)
	var order []string
	for _, s := range sessions {
		if !s.Interrupted {
			stats.TotalFocusTime += int64(s.WorkMinutes) * int64(s.CompletedCycles) * 60_000
			stats.TotalBreakTime += int64(s.BreakMinutes) * int64(s.CompletedCycles) * 60_000
		}
		if types.DateKey(types.FromMillis(s.StartTime)) == today {
			stats.SessionsToday++
		}
		if _, seen := counts[s.TemplateName]; !seen {
			order = append(order, s.TemplateName)
		}
		counts[s.TemplateName]++
	}

	if len(sessions) > 0 {
		stats.AverageSessionLength = float64(stats.TotalFocusTime+stats.TotalBreakTime) / float64(len(sessions))

		// ties go to the template seen first in newest-first order
		best := 0
		for _, name := range order {
			if counts[name] > best {
				best = counts[name]
				stats.MostUsedTemplate = name
			}
		}
	}
	return stats, nil
}
