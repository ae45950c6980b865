package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

const (
	TickJobName      = "pomodoro-tick"
	RetentionJobName = "retention-cleanup"
)

// Ticker advances the timer by the wall time since the previous tick
type Ticker interface {
	Tick(ctx context.Context, elapsed time.Duration) error
}

// Cleaner removes daily buckets older than a date key
type Cleaner interface {
	DeleteDailyBefore(ctx context.Context, cutoff string) (int, error)
}

// Scheduler wraps a gocron scheduler running the daemon's periodic jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	logger    logging.Logger
	recorder  metrics.Recorder

	mu  sync.RWMutex
	ctx context.Context
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock sets the clock used for elapsed time and retention cutoffs
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Scheduler) { s.recorder = metrics.OrNoop(r) }
}

// New creates a scheduler. Jobs run once Start is called.
func New(logger logging.Logger, opts ...Option) (*Scheduler, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	s := &Scheduler{
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	gs, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.scheduler = gs
	return s, nil
}

// Start begins running jobs. ctx is handed to every job run.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("Starting scheduler", "jobs", len(s.scheduler.Jobs()))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// Jobs returns the names of the scheduled jobs
func (s *Scheduler) Jobs() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// ScheduleTick runs ticker every interval with the elapsed time measured
// from the clock. Runs never overlap; a slow tick delays the next one.
func (s *Scheduler) ScheduleTick(ticker Ticker, interval time.Duration) error {
	job := newTickJob(ticker, s.clock, s.logger, s.recorder)

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { job.run(s.context()) }),
		gocron.WithName(TickJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create tick job: %w", err)
	}
	return nil
}

// ScheduleRetention deletes buckets older than retentionDays once a day at
// 03:00 local time. retentionDays of 0 schedules nothing.
func (s *Scheduler) ScheduleRetention(cleaner Cleaner, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if _, err := RunRetention(s.context(), cleaner, s.clock.Now(), retentionDays, s.logger); err != nil {
				logging.LogError(s.logger, err, RetentionJobName, nil)
			}
		}),
		gocron.WithName(RetentionJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create retention job: %w", err)
	}
	return nil
}

// RetentionCutoff returns the oldest date key kept when keeping retentionDays
// days up to and including now
func RetentionCutoff(now time.Time, retentionDays int) string {
	return types.DateKey(now.AddDate(0, 0, -(retentionDays - 1)))
}

// RunRetention deletes daily buckets older than retentionDays and returns
// how many were removed
func RunRetention(ctx context.Context, cleaner Cleaner, now time.Time, retentionDays int, logger logging.Logger) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := RetentionCutoff(now, retentionDays)

	start := time.Now()
	removed, err := cleaner.DeleteDailyBefore(ctx, cutoff)
	if err != nil {
		return removed, err
	}
	logging.LogOperation(logger, RetentionJobName, time.Since(start), map[string]interface{}{
		"cutoff":  cutoff,
		"removed": removed,
	})
	if removed > 0 {
		logger.Info("Removed old daily records", "cutoff", cutoff, "removed", removed)
	}
	return removed, nil
}

// tickJob remembers when it last ran
type tickJob struct {
	ticker   Ticker
	clock    clockwork.Clock
	logger   logging.Logger
	recorder metrics.Recorder

	mu   sync.Mutex
	last time.Time
}

func newTickJob(ticker Ticker, clock clockwork.Clock, logger logging.Logger, recorder metrics.Recorder) *tickJob {
	return &tickJob{ticker: ticker, clock: clock, logger: logger, recorder: recorder, last: clock.Now()}
}

func (j *tickJob) run(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.clock.Now()
	elapsed := now.Sub(j.last)
	j.last = now
	if elapsed < 0 {
		elapsed = 0
	}

	start := time.Now()
	if err := j.ticker.Tick(ctx, elapsed); err != nil {
		logging.LogError(j.logger, err, TickJobName, map[string]interface{}{"elapsed_ms": elapsed.Milliseconds()})
	}
	j.recorder.ObserveTickDuration(time.Since(start))
}
