package messaging

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/repository"
	"focusos/internal/services"
	"focusos/internal/types"
)

func TestCommand_EncodeDecode(t *testing.T) {
	t.Parallel()

	data, err := Start("classic").Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pomodoroStart","templateId":"classic"}`, string(data))

	data, err = Pause().Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pomodoroPause"}`, string(data))

	cmd, err := Decode([]byte(`{"type":"pomodoroStop"}`))
	require.NoError(t, err)
	assert.Equal(t, Stop(), cmd)
}

func TestCommand_Invalid(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{
		`{"type":"pomodoroStart"}`,
		`{"type":"pomodoroSkip"}`,
		`not json`,
	} {
		_, err := Decode([]byte(payload))
		assert.Error(t, err, payload)
	}
}

func TestLocalBus(t *testing.T) {
	t.Parallel()

	bus := NewLocalBus()
	var mu sync.Mutex
	var got []Command
	unsubscribe, err := bus.Subscribe(func(c Command) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, Resume()))
	assert.Error(t, bus.Publish(ctx, Command{Type: "bogus"}))

	require.NoError(t, unsubscribe())
	require.NoError(t, bus.Publish(ctx, Stop()))

	mu.Lock()
	assert.Equal(t, []Command{Resume()}, got)
	mu.Unlock()

	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(ctx, Pause()), ErrBusClosed)
}

func newTimer(t *testing.T) (*services.PomodoroTimer, *repository.Repository) {
	t.Helper()
	logger := logging.NopLogger{}
	repo := repository.New(repository.NewMemoryStore(), logger)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 5, 10, 0, 0, 0, time.Local))
	templates := services.NewTemplateService(repo, logger)
	sessions := services.NewSessionRecorder(repo, clock, logger, nil)
	return services.NewPomodoroTimer(repo, templates, sessions, logger, services.WithTimerClock(clock)), repo
}

func TestDispatcher_PauseWinsOverExpiry(t *testing.T) {
	t.Parallel()
	timer, repo := newTimer(t)
	ctx := context.Background()
	d := NewDispatcher(timer, logging.NopLogger{}, nil)

	require.NoError(t, d.Apply(ctx, Start("classic")))
	require.NoError(t, d.Tick(ctx, 25*time.Minute-time.Second))

	// pause arrives during the interval in which the phase would expire
	d.Enqueue(Pause())
	require.NoError(t, d.Tick(ctx, 2*time.Second))

	state, err := repo.PomodoroState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.IsPaused)
	assert.Equal(t, types.PhaseWork, state.CurrentPhase)
	assert.Equal(t, int64(1000), state.RemainingMs)
	assert.Zero(t, d.Pending())
}

func TestDispatcher_DrainsInOrder(t *testing.T) {
	t.Parallel()
	timer, repo := newTimer(t)
	ctx := context.Background()
	d := NewDispatcher(timer, logging.NopLogger{}, nil)

	d.Enqueue(Start("short"))
	d.Enqueue(Pause())
	d.Enqueue(Resume())
	require.Equal(t, 3, d.Pending())

	require.NoError(t, d.Tick(ctx, time.Second))

	state, err := repo.PomodoroState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.False(t, state.IsPaused)
	assert.Equal(t, int64(15*60_000-1000), state.RemainingMs)
}

func TestDispatcher_FailuresDoNotBlockQueue(t *testing.T) {
	t.Parallel()
	timer, repo := newTimer(t)
	ctx := context.Background()
	d := NewDispatcher(timer, logging.NopLogger{}, nil)

	assert.True(t, repoerrors.IsNotFound(d.Apply(ctx, Start("missing"))))

	d.Enqueue(Start("missing"))
	d.Enqueue(Start("classic"))
	d.Drain(ctx)

	state, err := repo.PomodoroState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "classic", state.CurrentTemplateID)
}

func TestDispatcher_BusIntegration(t *testing.T) {
	t.Parallel()
	timer, repo := newTimer(t)
	ctx := context.Background()
	d := NewDispatcher(timer, logging.NopLogger{}, nil)

	bus := NewLocalBus()
	_, err := bus.Subscribe(d.Enqueue)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Start("long")))
	state, err := repo.PomodoroState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state, "commands are applied on the next tick")

	require.NoError(t, d.Tick(ctx, 0))
	state, err = repo.PomodoroState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "long", state.CurrentTemplateID)
}

// Requires a running nats-server; set FOCUSOS_TEST_NATS_URL to enable.
func TestNATSBus_RoundTrip(t *testing.T) {
	url := os.Getenv("FOCUSOS_TEST_NATS_URL")
	if url == "" {
		t.Skip("FOCUSOS_TEST_NATS_URL not set")
	}

	bus, err := NewNATSBus(url, "focusos.test.commands", logging.NopLogger{})
	require.NoError(t, err)
	defer bus.Close()

	received := make(chan Command, 1)
	unsubscribe, err := bus.Subscribe(func(c Command) { received <- c })
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), Start("classic")))

	select {
	case cmd := <-received:
		assert.Equal(t, Start("classic"), cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for command")
	}
}
