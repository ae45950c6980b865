package services

import (
	"context"
	"testing"
	"time"

	"focusos/internal/achievements"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/types"
)

func mustState(t *testing.T, env *testEnv) *types.PomodoroState {
	t.Helper()
	state, err := env.timer.State(context.Background())
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	return state
}

func allSessions(t *testing.T, env *testEnv) []types.PomodoroSession {
	t.Helper()
	sessions, err := env.sessions.Sessions(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Sessions() failed: %v", err)
	}
	return sessions
}

func TestPomodoroTimer_StartUnknownTemplate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.timer.Start(context.Background(), "nope")
	if !repoerrors.IsNotFound(err) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
	if state := mustState(t, env); state != nil {
		t.Errorf("Expected no state after failed start, got %+v", state)
	}
}

func TestPomodoroTimer_Start(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	state, err := env.timer.Start(context.Background(), "classic")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if state.CurrentPhase != types.PhaseWork || state.RemainingMs != 25*60_000 {
		t.Errorf("Unexpected phase/remaining: %s %d", state.CurrentPhase, state.RemainingMs)
	}
	if !state.IsActive || state.IsPaused || state.CyclesCompleted != 0 {
		t.Errorf("Unexpected flags: %+v", state)
	}
	if state.TargetCycles != types.DefaultPomodoroCycles {
		t.Errorf("Expected target cycles from settings, got %d", state.TargetCycles)
	}

	stored := mustState(t, env)
	if stored == nil || *stored != *state {
		t.Errorf("Stored state %+v does not match %+v", stored, state)
	}
}

func TestPomodoroTimer_TickTransitionsExactlyOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.timer.Tick(ctx, 25*time.Minute); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	state := mustState(t, env)
	if state.CurrentPhase != types.PhaseBreak {
		t.Fatalf("Expected break phase, got %s", state.CurrentPhase)
	}
	if state.RemainingMs != 5*60_000 {
		t.Errorf("Expected full break duration, got %d", state.RemainingMs)
	}
	if state.CyclesCompleted != 1 {
		t.Errorf("Expected 1 completed cycle, got %d", state.CyclesCompleted)
	}
}

func TestPomodoroTimer_OvershootIsDiscarded(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.timer.Tick(ctx, 2*time.Hour); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	state := mustState(t, env)
	if state.CurrentPhase != types.PhaseBreak || state.RemainingMs != 5*60_000 || state.CyclesCompleted != 1 {
		t.Errorf("Expected a single transition into a full break, got %+v", state)
	}
}

func TestPomodoroTimer_TickCountsDown(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "short"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := env.timer.Tick(ctx, time.Second); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	if state := mustState(t, env); state.RemainingMs != 15*60_000-3000 {
		t.Errorf("Expected 3s elapsed, got remaining %d", state.RemainingMs)
	}
}

func TestPomodoroTimer_StopMidWorkIsInterrupted(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.timer.Tick(ctx, 10*time.Minute); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	env.clock.Advance(10 * time.Minute)
	if err := env.timer.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if state := mustState(t, env); state != nil {
		t.Errorf("Expected idle after stop, got %+v", state)
	}

	sessions := allSessions(t, env)
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if !s.Interrupted || s.CompletedCycles != 0 {
		t.Errorf("Expected interrupted session with 0 cycles, got %+v", s)
	}
	if s.TemplateName != "Classic" || s.WorkMinutes != 25 || s.BreakMinutes != 5 {
		t.Errorf("Unexpected template snapshot: %+v", s)
	}
	if s.EndTime-s.StartTime != (10 * time.Minute).Milliseconds() {
		t.Errorf("Unexpected session duration %d", s.EndTime-s.StartTime)
	}
}

func TestPomodoroTimer_StopWhenIdleIsNoop(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if err := env.timer.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if sessions := allSessions(t, env); len(sessions) != 0 {
		t.Errorf("Expected no sessions, got %d", len(sessions))
	}
}

func TestPomodoroTimer_PauseResume(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.timer.Pause(ctx); err != nil {
		t.Fatalf("Pause when idle should be a no-op, got %v", err)
	}
	if err := env.timer.Resume(ctx); err != nil {
		t.Fatalf("Resume when idle should be a no-op, got %v", err)
	}

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.timer.Resume(ctx); err != nil {
		t.Fatalf("Resume when running failed: %v", err)
	}
	if err := env.timer.Pause(ctx); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := env.timer.Pause(ctx); err != nil {
		t.Fatalf("Second pause failed: %v", err)
	}

	if err := env.timer.Tick(ctx, 30*time.Minute); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	state := mustState(t, env)
	if !state.IsPaused || state.RemainingMs != 25*60_000 || state.CurrentPhase != types.PhaseWork {
		t.Fatalf("Paused timer must not advance, got %+v", state)
	}

	if err := env.timer.Resume(ctx); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if err := env.timer.Tick(ctx, time.Minute); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	state = mustState(t, env)
	if state.IsPaused || state.RemainingMs != 24*60_000 {
		t.Errorf("Expected resumed countdown, got %+v", state)
	}
}

func TestPomodoroTimer_ResumeAtZeroTransitions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	state, err := env.timer.Start(ctx, "classic")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	state.RemainingMs = 0
	state.IsPaused = true
	if err := env.repo.SavePomodoroState(ctx, *state); err != nil {
		t.Fatalf("SavePomodoroState failed: %v", err)
	}

	if err := env.timer.Tick(ctx, time.Second); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if got := mustState(t, env); got.CurrentPhase != types.PhaseWork {
		t.Fatalf("Paused timer at zero must not transition, got %s", got.CurrentPhase)
	}

	if err := env.timer.Resume(ctx); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	got := mustState(t, env)
	if got.CurrentPhase != types.PhaseBreak || got.RemainingMs != 5*60_000 || got.IsPaused {
		t.Errorf("Expected pending transition on resume, got %+v", got)
	}
}

func TestPomodoroTimer_NaturalCompletion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.repo.SaveSettings(ctx, types.Settings{TrackingDelay: 5, PomodoroCycles: 2}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if _, err := env.timer.Start(ctx, "short"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	phases := []time.Duration{15 * time.Minute, 5 * time.Minute, 15 * time.Minute, 5 * time.Minute}
	for i, d := range phases {
		if err := env.timer.Tick(ctx, d); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}

	if state := mustState(t, env); state != nil {
		t.Fatalf("Expected timer to finish after 2 cycles, got %+v", state)
	}
	sessions := allSessions(t, env)
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Interrupted || sessions[0].CompletedCycles != 2 {
		t.Errorf("Expected completed session with 2 cycles, got %+v", sessions[0])
	}

	completions := env.events.of(achievements.EventPomodoroComplete)
	if len(completions) != 4 {
		t.Fatalf("Expected 4 pomodoro-complete events, got %d", len(completions))
	}
	last := completions[3].payload
	if last.Phase != types.PhaseBreak || last.TotalSessions != 2 || last.ConsecutiveSessions != 2 {
		t.Errorf("Unexpected final payload: %+v", last)
	}
}

func TestPomodoroTimer_UnlimitedCycles(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.repo.SaveSettings(ctx, types.Settings{TrackingDelay: 5, PomodoroCycles: 0}); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if _, err := env.timer.Start(ctx, "short"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := env.timer.Tick(ctx, 15*time.Minute); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	state := mustState(t, env)
	if state == nil {
		t.Fatal("Timer with 0 cycles should run until stopped")
	}
	if state.CyclesCompleted != 5 {
		t.Errorf("Expected 5 cycles, got %d", state.CyclesCompleted)
	}
}

func TestPomodoroTimer_WorkCompletionEvent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.timer.Tick(ctx, 25*time.Minute); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	events := env.events.of(achievements.EventPomodoroComplete)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	p := events[0].payload
	if p.Phase != types.PhaseWork || p.TotalSessions != 1 || p.ConsecutiveSessions != 1 {
		t.Errorf("Unexpected payload: %+v", p)
	}
}

func TestPomodoroTimer_StartReplacesActiveTimer(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.timer.Start(ctx, "classic"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	state, err := env.timer.Start(ctx, "long")
	if err != nil {
		t.Fatalf("Second start failed: %v", err)
	}
	if state.CurrentTemplateID != "long" || state.RemainingMs != 50*60_000 {
		t.Errorf("Unexpected replacement state: %+v", state)
	}

	sessions := allSessions(t, env)
	if len(sessions) != 1 || sessions[0].TemplateID != "classic" || !sessions[0].Interrupted {
		t.Errorf("Expected the replaced run to be recorded as interrupted, got %+v", sessions)
	}
}

func TestPomodoroTimer_CustomTemplate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	template, err := env.templates.Create(ctx, "Sprint", 10, 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	state, err := env.timer.Start(ctx, template.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if state.RemainingMs != 10*60_000 || state.TemplateName != "Sprint" {
		t.Errorf("Unexpected state: %+v", state)
	}
}
