package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/repository"
	"focusos/internal/types"
)

type recordingTicker struct {
	mu      sync.Mutex
	elapsed []time.Duration
	err     error
}

func (r *recordingTicker) Tick(_ context.Context, elapsed time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elapsed = append(r.elapsed, elapsed)
	return r.err
}

func (r *recordingTicker) calls() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.elapsed...)
}

var schedNow = time.Date(2024, 6, 5, 10, 0, 0, 0, time.Local)

func TestTickJob_MeasuresElapsed(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(schedNow)
	ticker := &recordingTicker{}
	job := newTickJob(ticker, clock, logging.NopLogger{}, metrics.NoopRecorder{})

	clock.Advance(3 * time.Second)
	job.run(context.Background())
	job.run(context.Background())
	clock.Advance(1500 * time.Millisecond)
	job.run(context.Background())

	assert.Equal(t, []time.Duration{3 * time.Second, 0, 1500 * time.Millisecond}, ticker.calls())
}

func TestTickJob_ErrorsAreLogged(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(schedNow)
	ticker := &recordingTicker{err: errors.New("store down")}
	job := newTickJob(ticker, clock, logging.NopLogger{}, metrics.NoopRecorder{})

	clock.Advance(time.Second)
	job.run(context.Background())
	job.run(context.Background())
	assert.Len(t, ticker.calls(), 2, "a failing tick must not stop later ticks")
}

func TestRunRetention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := repository.New(repository.NewMemoryStore(), logging.NopLogger{})
	for i := 0; i < 5; i++ {
		date := types.DateKey(schedNow.AddDate(0, 0, -i))
		require.NoError(t, repo.UpdateDaily(ctx, date, func(r types.DailyRecord) error {
			r["example.com"] = types.DomainStats{Time: 1000}
			return nil
		}))
	}

	removed, err := RunRetention(ctx, repo, schedNow, 0, logging.NopLogger{})
	require.NoError(t, err)
	assert.Zero(t, removed)

	assert.Equal(t, "2024-06-03", RetentionCutoff(schedNow, 3))

	removed, err = RunRetention(ctx, repo, schedNow, 3, logging.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := repo.DailyKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, keys)
}

func TestScheduler_RunsTickJob(t *testing.T) {
	t.Parallel()

	s, err := New(logging.NopLogger{})
	require.NoError(t, err)

	ticker := &recordingTicker{}
	require.NoError(t, s.ScheduleTick(ticker, 20*time.Millisecond))
	require.NoError(t, s.ScheduleRetention(nil, 0))
	assert.Equal(t, []string{TickJobName}, s.Jobs())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer func() { assert.NoError(t, s.Stop()) }()

	assert.Eventually(t, func() bool { return len(ticker.calls()) >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_RetentionJobRegistered(t *testing.T) {
	t.Parallel()

	s, err := New(logging.NopLogger{})
	require.NoError(t, err)
	repo := repository.New(repository.NewMemoryStore(), logging.NopLogger{})

	require.NoError(t, s.ScheduleRetention(repo, 30))
	assert.Equal(t, []string{RetentionJobName}, s.Jobs())
	require.NoError(t, s.Stop())
}

func TestPoll(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(schedNow)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, clock, time.Second, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	waitCall := func() {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for poll")
		}
	}

	waitCall()
	blockCtx, blockCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer blockCancel()
	require.NoError(t, clock.BlockUntilContext(blockCtx, 1))
	clock.Advance(time.Second)
	waitCall()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not return after cancel")
	}
}

func TestPoll_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("read failed")
	err := Poll(context.Background(), clockwork.NewFakeClock(), time.Second, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
