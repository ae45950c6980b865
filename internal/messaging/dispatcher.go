package messaging

import (
	"context"
	"sync"
	"time"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

// Timer is the state machine commands are applied to
type Timer interface {
	Start(ctx context.Context, templateID string) (*types.PomodoroState, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Tick(ctx context.Context, elapsed time.Duration) error
}

// Dispatcher queues received commands and applies them to the timer at the
// start of each tick, so a pause received during an interval takes effect
// before that interval's countdown.
type Dispatcher struct {
	timer    Timer
	logger   logging.Logger
	recorder metrics.Recorder

	mu    sync.Mutex
	queue []Command
}

// NewDispatcher creates a dispatcher for timer
func NewDispatcher(timer Timer, logger logging.Logger, recorder metrics.Recorder) *Dispatcher {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Dispatcher{timer: timer, logger: logger, recorder: metrics.OrNoop(recorder)}
}

// Enqueue adds cmd to the pending queue. It satisfies Handler.
func (d *Dispatcher) Enqueue(cmd Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, cmd)
}

// Pending returns the number of queued commands
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain applies every queued command in arrival order. Failures are logged
// and do not stop the remaining commands.
func (d *Dispatcher) Drain(ctx context.Context) {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, cmd := range queue {
		if err := d.Apply(ctx, cmd); err != nil {
			d.logger.Warn("Command failed", "type", string(cmd.Type), "template", cmd.TemplateID, "error", err)
		}
	}
}

// Tick drains the queue and then advances the timer by elapsed
func (d *Dispatcher) Tick(ctx context.Context, elapsed time.Duration) error {
	d.Drain(ctx)
	return d.timer.Tick(ctx, elapsed)
}

// Apply runs cmd against the timer immediately
func (d *Dispatcher) Apply(ctx context.Context, cmd Command) error {
	err := cmd.Validate()
	if err == nil {
		switch cmd.Type {
		case CommandStart:
			_, err = d.timer.Start(ctx, cmd.TemplateID)
		case CommandPause:
			err = d.timer.Pause(ctx)
		case CommandResume:
			err = d.timer.Resume(ctx)
		case CommandStop:
			err = d.timer.Stop(ctx)
		}
	}

	result := "ok"
	switch {
	case repoerrors.IsNotFound(err):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	d.recorder.IncCommand(string(cmd.Type), result)

	if err == nil {
		d.logger.Debug("Command applied", "type", string(cmd.Type), "template", cmd.TemplateID)
	}
	return err
}
