package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"focusos/internal/achievements"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

// PomodoroTimer is the persisted Pomodoro state machine.
//
// Idle (no stored state) -> work <-> paused -> break -> work ... -> Idle.
// All operations are serialized by a mutex; cross-process writers are not
// coordinated.
type PomodoroTimer struct {
	mu        sync.Mutex
	store     TimerStore
	templates *TemplateService
	sessions  *SessionRecorder
	events    EventSink
	clock     clockwork.Clock
	logger    logging.Logger
	recorder  metrics.Recorder
}

// TimerOption configures a PomodoroTimer
type TimerOption func(*PomodoroTimer)

// WithTimerClock sets the clock used for session timestamps
func WithTimerClock(clock clockwork.Clock) TimerOption {
	return func(t *PomodoroTimer) { t.clock = clock }
}

// WithTimerEvents sets where pomodoro-complete events are raised
func WithTimerEvents(events EventSink) TimerOption {
	return func(t *PomodoroTimer) { t.events = events }
}

// WithTimerRecorder sets the metrics recorder
func WithTimerRecorder(r metrics.Recorder) TimerOption {
	return func(t *PomodoroTimer) { t.recorder = metrics.OrNoop(r) }
}

// NewPomodoroTimer creates a timer over store
func NewPomodoroTimer(store TimerStore, templates *TemplateService, sessions *SessionRecorder, logger logging.Logger, opts ...TimerOption) *PomodoroTimer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	t := &PomodoroTimer{
		store:     store,
		templates: templates,
		sessions:  sessions,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// pendingEvent is raised after the timer lock is released
type pendingEvent struct {
	phase    types.Phase
	cycles   int  // cycles completed in the run so far
	recorded bool // the run's session has already been written
}

// State returns the active timer, or nil when idle
func (t *PomodoroTimer) State(ctx context.Context) (*types.PomodoroState, error) {
	return t.store.PomodoroState(ctx)
}

// Start begins templateID from its work phase. An unknown template returns
// a NotFound error. A timer that is already running is recorded as
// interrupted and replaced.
func (t *PomodoroTimer) Start(ctx context.Context, templateID string) (*types.PomodoroState, error) {
	template, err := t.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	settings, err := t.store.Settings(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.store.PomodoroState(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		t.logger.Info("Replacing active timer", "template", current.CurrentTemplateID)
		if err := t.finishLocked(ctx, *current); err != nil {
			return nil, err
		}
	}

	state := types.PomodoroState{
		CurrentTemplateID: template.ID,
		CurrentPhase:      types.PhaseWork,
		RemainingMs:       template.WorkMs(),
		IsActive:          true,
		IsPaused:          false,
		CyclesCompleted:   0,
		TemplateName:      template.Name,
		WorkMinutes:       template.WorkMinutes,
		BreakMinutes:      template.BreakMinutes,
		StartTime:         types.UnixMillis(t.clock.Now()),
		TargetCycles:      settings.PomodoroCycles,
	}
	if err := t.store.SavePomodoroState(ctx, state); err != nil {
		return nil, err
	}

	t.recorder.IncPhaseTransition(string(types.PhaseWork))
	t.logger.Info("Timer started", "template", template.ID, "work_minutes", template.WorkMinutes,
		"break_minutes", template.BreakMinutes, "target_cycles", state.TargetCycles)
	return &state, nil
}

// Pause freezes the countdown. It is a no-op when idle or already paused.
func (t *PomodoroTimer) Pause(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.store.PomodoroState(ctx)
	if err != nil || state == nil || !state.IsActive || state.IsPaused {
		return err
	}

	state.IsPaused = true
	if err := t.store.SavePomodoroState(ctx, *state); err != nil {
		return err
	}
	t.logger.Info("Timer paused", "phase", string(state.CurrentPhase), "remaining_ms", state.RemainingMs)
	return nil
}

// Resume continues a paused countdown. It is a no-op unless paused. A timer
// paused with no time left transitions immediately.
func (t *PomodoroTimer) Resume(ctx context.Context) error {
	var events []pendingEvent

	err := func() error {
		t.mu.Lock()
		defer t.mu.Unlock()

		state, err := t.store.PomodoroState(ctx)
		if err != nil || state == nil || !state.IsPaused {
			return err
		}

		state.IsPaused = false
		if state.RemainingMs <= 0 {
			events, err = t.advanceLocked(ctx, state)
			return err
		}
		if err := t.store.SavePomodoroState(ctx, *state); err != nil {
			return err
		}
		t.logger.Info("Timer resumed", "phase", string(state.CurrentPhase), "remaining_ms", state.RemainingMs)
		return nil
	}()

	t.raise(ctx, events)
	return err
}

// Tick advances an active, unpaused timer by elapsed. When the phase runs
// out exactly one transition happens and the new phase starts at its full
// duration; overshoot is discarded.
func (t *PomodoroTimer) Tick(ctx context.Context, elapsed time.Duration) error {
	var events []pendingEvent

	err := func() error {
		t.mu.Lock()
		defer t.mu.Unlock()

		state, err := t.store.PomodoroState(ctx)
		if err != nil || state == nil || !state.IsActive || state.IsPaused {
			return err
		}

		state.RemainingMs -= elapsed.Milliseconds()
		if state.RemainingMs > 0 {
			return t.store.SavePomodoroState(ctx, *state)
		}

		events, err = t.advanceLocked(ctx, state)
		return err
	}()

	t.raise(ctx, events)
	return err
}

// Stop records the current run and returns to idle. It is a no-op when idle.
func (t *PomodoroTimer) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.store.PomodoroState(ctx)
	if err != nil || state == nil {
		return err
	}
	return t.finishLocked(ctx, *state)
}

// advanceLocked performs one phase transition and persists the result
func (t *PomodoroTimer) advanceLocked(ctx context.Context, state *types.PomodoroState) ([]pendingEvent, error) {
	switch state.CurrentPhase {
	case types.PhaseBreak:
		event := pendingEvent{phase: types.PhaseBreak, cycles: state.CyclesCompleted}
		if naturallyComplete(*state) {
			state.RemainingMs = 0
			if err := t.finishLocked(ctx, *state); err != nil {
				return nil, err
			}
			event.recorded = true
			return []pendingEvent{event}, nil
		}

		state.CurrentPhase = types.PhaseWork
		state.RemainingMs = state.PhaseDurationMs(types.PhaseWork)
		if err := t.store.SavePomodoroState(ctx, *state); err != nil {
			return nil, err
		}
		t.recorder.IncPhaseTransition(string(types.PhaseWork))
		t.logger.Info("Break finished, starting work", "cycles_completed", state.CyclesCompleted)
		return []pendingEvent{event}, nil

	default:
		state.CyclesCompleted++
		state.CurrentPhase = types.PhaseBreak
		state.RemainingMs = state.PhaseDurationMs(types.PhaseBreak)
		if err := t.store.SavePomodoroState(ctx, *state); err != nil {
			return nil, err
		}
		t.recorder.IncPhaseTransition(string(types.PhaseBreak))
		t.logger.Info("Work finished, starting break", "cycles_completed", state.CyclesCompleted)
		return []pendingEvent{{phase: types.PhaseWork, cycles: state.CyclesCompleted}}, nil
	}
}

// naturallyComplete reports whether the configured number of cycles has run
func naturallyComplete(state types.PomodoroState) bool {
	return state.TargetCycles > 0 && state.CyclesCompleted >= state.TargetCycles
}

// finishLocked writes the session for state and clears the stored timer
func (t *PomodoroTimer) finishLocked(ctx context.Context, state types.PomodoroState) error {
	session := types.PomodoroSession{
		ID:              uuid.NewString(),
		TemplateID:      state.CurrentTemplateID,
		TemplateName:    state.TemplateName,
		WorkMinutes:     state.WorkMinutes,
		BreakMinutes:    state.BreakMinutes,
		StartTime:       state.StartTime,
		EndTime:         types.UnixMillis(t.clock.Now()),
		CompletedCycles: state.CyclesCompleted,
		Interrupted:     state.RemainingMs > 0 && !naturallyComplete(state),
	}

	if err := t.sessions.RecordSession(ctx, session); err != nil {
		return err
	}
	if err := t.store.ClearPomodoroState(ctx); err != nil {
		return err
	}

	t.logger.Info("Timer stopped", "template", session.TemplateID, "cycles", session.CompletedCycles,
		"interrupted", session.Interrupted)
	return nil
}

// raise reports pomodoro-complete for each finished phase. Failures are logged.
func (t *PomodoroTimer) raise(ctx context.Context, events []pendingEvent) {
	if t.events == nil || len(events) == 0 {
		return
	}

	previous, err := t.sessions.CompletedCycles(ctx)
	if err != nil {
		t.logger.Warn("Failed to count completed sessions", "error", err)
	}

	for _, e := range events {
		total := previous
		if !e.recorded {
			total += e.cycles
		}

		payload := achievements.Payload{
			TotalSessions:       total,
			ConsecutiveSessions: e.cycles,
			Phase:               e.phase,
			At:                  t.clock.Now(),
		}
		if _, err := t.events.Evaluate(ctx, achievements.EventPomodoroComplete, payload); err != nil {
			t.logger.Warn("Failed to evaluate achievements", "event", string(achievements.EventPomodoroComplete), "error", err)
		}
	}
}
