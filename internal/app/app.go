package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"

	"focusos/internal/achievements"
	"focusos/internal/config"
	"focusos/internal/database"
	"focusos/internal/export"
	"focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/messaging"
	"focusos/internal/metrics"
	"focusos/internal/platform"
	"focusos/internal/repository"
	"focusos/internal/scheduler"
	"focusos/internal/services"
	"focusos/internal/watch"
)

const (
	// healthTimeout bounds the startup health check
	healthTimeout = 5 * time.Second
	// shutdownTimeout bounds closing the transport and database
	shutdownTimeout = 30 * time.Second
)

// App holds the store, services and transports of one focusos process
type App struct {
	Config     *config.Config
	Logger     logging.Logger
	Registry   *prom.Registry
	Recorder   metrics.Recorder
	Repository *repository.Repository
	Evaluator  *achievements.Evaluator
	Templates  *services.TemplateService
	Sessions   *services.SessionRecorder
	Timer      *services.PomodoroTimer
	Tracker    *services.Tracker
	Aggregator *services.Aggregator
	Exporter   *export.Exporter
	Bus        messaging.Bus

	clock     clockwork.Clock
	dbService database.Service
	remote    bool // Bus reaches other processes
}

type options struct {
	clock    clockwork.Clock
	logger   logging.Logger
	notifier platform.Notifier
	bus      messaging.Bus
}

// Option configures New
type Option func(*options)

// WithClock replaces the wall clock used by every service
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger replaces the JSON logger built from the config
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotifier replaces the notifier chosen from the config
func WithNotifier(n platform.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithBus replaces the command transport chosen from the config. The bus is
// treated as local.
func WithBus(bus messaging.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// New connects to the database and builds every service from cfg
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, cfg.Logging.Level)
	}

	dbService := database.NewSQLiteService(logger)
	if err := connect(ctx, dbService, &cfg.Database, logger); err != nil {
		return nil, err
	}

	repo := repository.New(repository.NewSQLiteStore(dbService, logger), logger)

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	notifier := o.notifier
	if notifier == nil {
		if cfg.Notifications.Enabled {
			notifier = platform.NewNotifier(logger)
		} else {
			notifier = platform.LogNotifier{Logger: logger}
		}
	}

	evaluator := achievements.NewEvaluator(repo, notifier, logger,
		achievements.WithClock(o.clock), achievements.WithRecorder(recorder))

	templates := services.NewTemplateService(repo, logger)
	sessions := services.NewSessionRecorder(repo, o.clock, logger, recorder)
	timer := services.NewPomodoroTimer(repo, templates, sessions, logger,
		services.WithTimerClock(o.clock),
		services.WithTimerEvents(evaluator),
		services.WithTimerRecorder(recorder))

	trackerOpts := []services.TrackerOption{
		services.WithTrackerClock(o.clock),
		services.WithTrackerEvents(evaluator),
		services.WithTrackerRecorder(recorder),
	}
	if cfg.Favicons.Enabled {
		resolver := services.NewFaviconResolver().WithTimeout(cfg.Favicons.Timeout)
		trackerOpts = append(trackerOpts, services.WithFavicons(resolver))
	}
	tracker := services.NewTracker(repo, logger, trackerOpts...)

	aggregator := services.NewAggregator(repo, o.clock)
	exporter := export.NewExporter(repo, aggregator, sessions, logger,
		export.WithClock(o.clock), export.WithRecorder(recorder))

	bus, remote := o.bus, false
	if bus == nil {
		if cfg.Messaging.NATSURL != "" {
			natsBus, err := messaging.NewNATSBus(cfg.Messaging.NATSURL, cfg.Messaging.Subject, logger)
			if err != nil {
				dbService.Close()
				return nil, err
			}
			bus, remote = natsBus, true
		} else {
			bus = messaging.NewLocalBus()
		}
	}

	logger.Debug("Application initialized", "db_path", cfg.Database.Path, "environment", cfg.Database.Environment,
		"remote_commands", remote)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Recorder:   recorder,
		Repository: repo,
		Evaluator:  evaluator,
		Templates:  templates,
		Sessions:   sessions,
		Timer:      timer,
		Tracker:    tracker,
		Aggregator: aggregator,
		Exporter:   exporter,
		Bus:        bus,
		clock:      o.clock,
		dbService:  dbService,
		remote:     remote,
	}, nil
}

// connect opens the database and checks its health, reconnecting once when
// the failure is transient
func connect(ctx context.Context, svc database.Service, cfg *database.Config, logger logging.Logger) error {
	if err := svc.Connect(ctx, cfg); err != nil {
		return err
	}

	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	err := svc.Health(healthCtx)
	if err == nil {
		return nil
	}
	if !errors.IsRetryable(err) {
		svc.Close()
		return errors.NewStoreErrorWithContext("startup", err, errors.CodeOf(err), map[string]string{
			"operation": "health_check",
			"db_path":   cfg.Path,
		})
	}

	logger.Warn("Database unhealthy, reconnecting", "db_path", cfg.Path, "error", err)
	if err := svc.Connect(ctx, cfg); err != nil {
		return errors.NewStoreErrorWithContext("startup", err, errors.ErrCodeConnection, map[string]string{
			"operation": "reconnect",
			"db_path":   cfg.Path,
		})
	}
	return nil
}

// Clock returns the clock shared by the services
func (a *App) Clock() clockwork.Clock {
	return a.clock
}

// Remote reports whether commands travel over NATS to a running daemon
func (a *App) Remote() bool {
	return a.remote
}

// Send delivers cmd to the timer. Over NATS the daemon applies it at its
// next tick; otherwise it is applied to the store directly.
func (a *App) Send(ctx context.Context, cmd messaging.Command) error {
	if err := cmd.Validate(); err != nil {
		return errors.HandleValidationError("Send", "command", string(cmd.Type), err.Error())
	}
	if a.remote {
		return a.Bus.Publish(ctx, cmd)
	}
	return messaging.NewDispatcher(a.Timer, a.Logger, a.Recorder).Apply(ctx, cmd)
}

// NewWatcher watches the database file for writes from other processes
func (a *App) NewWatcher() (*watch.Watcher, error) {
	return watch.New(a.Config.Database.Path, a.Config.Daemon.WatchDebounce, a.Logger)
}

// Run is the daemon loop. It queues bus commands, ticks the timer, runs
// retention cleanup and serves metrics until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	dispatcher := messaging.NewDispatcher(a.Timer, a.Logger, a.Recorder)
	unsubscribe, err := a.Bus.Subscribe(dispatcher.Enqueue)
	if err != nil {
		return fmt.Errorf("failed to subscribe to commands: %w", err)
	}
	defer func() {
		if err := unsubscribe(); err != nil {
			a.Logger.Warn("Failed to unsubscribe from commands", "error", err)
		}
	}()

	sched, err := scheduler.New(a.Logger, scheduler.WithClock(a.clock), scheduler.WithRecorder(a.Recorder))
	if err != nil {
		return err
	}
	if err := sched.ScheduleTick(dispatcher, a.Config.Daemon.TickInterval); err != nil {
		return err
	}
	if err := sched.ScheduleRetention(a.Repository, a.Config.Database.RetentionDays); err != nil {
		return err
	}

	if _, err := a.Tracker.AppOpened(ctx); err != nil {
		a.Logger.Warn("Failed to evaluate app-opened", "error", err)
	}

	serveErr := make(chan error, 1)
	if addr := a.Config.Metrics.Addr; addr != "" {
		go func() { serveErr <- metrics.Serve(ctx, addr, a.Registry, a.Logger) }()
	}

	sched.Start(ctx)
	a.Logger.Info("Daemon started", "tick_interval", a.Config.Daemon.TickInterval.String(),
		"retention_days", a.Config.Database.RetentionDays, "remote_commands", a.remote)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("metrics endpoint failed: %w", err)
		}
	}

	if err := sched.Stop(); err != nil {
		a.Logger.Warn("Failed to stop scheduler", "error", err)
	}
	// commands that arrived after the last tick
	dispatcher.Drain(context.WithoutCancel(ctx))

	a.Logger.Info("Daemon stopped")
	return runErr
}

// Close releases the transport and the database connection
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close command bus: %w", err))
		}
	}
	if err := a.closeDatabase(ctx); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

// closeDatabase closes the connection pool, giving up when ctx expires
func (a *App) closeDatabase(ctx context.Context) error {
	if a.dbService == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- a.dbService.Close() }()

	select {
	case err := <-done:
		if err != nil {
			return errors.NewStoreErrorWithContext("shutdown", err, errors.CodeOf(err), map[string]string{
				"operation": "close_connection",
			})
		}
		a.Logger.Debug("Database connection closed")
		return nil
	case <-ctx.Done():
		a.Logger.Warn("Database close timed out")
		return errors.NewStoreError("shutdown", ctx.Err(), errors.ErrCodeTimeout)
	}
}
