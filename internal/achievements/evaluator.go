package achievements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/platform"
	"focusos/internal/types"
)

// NotificationTitle is the title of every unlock notification
const NotificationTitle = "Achievement Unlocked! 🏆"

// StateStore persists the unlock record
type StateStore interface {
	AchievementState(ctx context.Context) (types.AchievementState, error)
	UpdateAchievementState(ctx context.Context, fn func(*types.AchievementState) error) error
}

var errAlreadyUnlocked = errors.New("achievement already unlocked")

// Evaluator maps events to newly unlocked achievements and persists them
type Evaluator struct {
	store    StateStore
	notifier platform.Notifier
	clock    clockwork.Clock
	logger   logging.Logger
	recorder metrics.Recorder
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithClock sets the clock used for event times and lastUpdated
func WithClock(clock clockwork.Clock) Option {
	return func(e *Evaluator) { e.clock = clock }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Evaluator) { e.recorder = metrics.OrNoop(r) }
}

// NewEvaluator creates an evaluator. notifier may be nil to disable notifications.
func NewEvaluator(store StateStore, notifier platform.Notifier, logger logging.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	e := &Evaluator{
		store:    store,
		notifier: notifier,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate applies every rule for event and returns the ids unlocked by
// this call, in rule order. super-user is checked last against the updated
// total. A storage failure stops evaluation and returns the ids unlocked so far.
func (e *Evaluator) Evaluate(ctx context.Context, event EventType, payload Payload) ([]string, error) {
	if payload.At.IsZero() {
		payload.At = e.clock.Now()
	}

	var unlocked []string
	for _, id := range Matching(event, payload) {
		ok, err := e.Unlock(ctx, id)
		if err != nil {
			return unlocked, fmt.Errorf("evaluate %s: %w", event, err)
		}
		if ok {
			unlocked = append(unlocked, id)
		}
	}

	state, err := e.store.AchievementState(ctx)
	if err != nil {
		return unlocked, fmt.Errorf("evaluate %s: %w", event, err)
	}
	if state.TotalXP >= superUserXP && !state.IsUnlocked("super-user") {
		ok, err := e.Unlock(ctx, "super-user")
		if err != nil {
			return unlocked, fmt.Errorf("evaluate %s: %w", event, err)
		}
		if ok {
			unlocked = append(unlocked, "super-user")
		}
	}

	if len(unlocked) > 0 {
		e.logger.Info("Achievements unlocked", "event", string(event), "ids", unlocked)
	}
	return unlocked, nil
}

// Unlock adds id to the unlocked set and awards its XP. It reports false
// without writing when id is unknown or already unlocked.
func (e *Evaluator) Unlock(ctx context.Context, id string) (bool, error) {
	achievement, ok := Lookup(id)
	if !ok {
		e.logger.Debug("Ignoring unknown achievement", "id", id)
		return false, nil
	}

	err := e.store.UpdateAchievementState(ctx, func(state *types.AchievementState) error {
		if state.IsUnlocked(id) {
			return errAlreadyUnlocked
		}
		state.UnlockedIDs = append(state.UnlockedIDs, id)
		state.TotalXP += achievement.XP
		state.LastUpdated = types.UnixMillis(e.clock.Now())
		return nil
	})
	if errors.Is(err, errAlreadyUnlocked) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	e.recorder.IncAchievementUnlocked(id)
	e.notify(ctx, achievement)
	return true, nil
}

func (e *Evaluator) notify(ctx context.Context, a Achievement) {
	if e.notifier == nil {
		return
	}
	n := platform.Notification{Title: NotificationTitle, Message: NotificationMessage(a)}

	// A hung helper must not stall the caller
	notifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.notifier.Notify(notifyCtx, n); err != nil {
		e.logger.Warn("Failed to deliver achievement notification", "id", a.ID, "error", err)
	}
}

// NotificationMessage formats the body of an unlock notification
func NotificationMessage(a Achievement) string {
	return fmt.Sprintf("%s: %s (+%d XP)", a.Title, a.Description, a.XP)
}

// Summary is the state view shown by listings
type Summary struct {
	State    types.AchievementState `json:"state"`
	Progress types.XPProgress       `json:"progress"`
	Unlocked []Achievement          `json:"unlocked"`
	Locked   []Achievement          `json:"locked"`
}

// Summary loads the unlock record with level progress. Locked secret
// achievements are masked.
func (e *Evaluator) Summary(ctx context.Context) (Summary, error) {
	state, err := e.store.AchievementState(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{State: state, Progress: Progress(state.TotalXP)}
	for _, a := range Catalog {
		switch {
		case state.IsUnlocked(a.ID):
			summary.Unlocked = append(summary.Unlocked, a)
		case a.IsSecret:
			summary.Locked = append(summary.Locked, Achievement{
				ID:          a.ID,
				Title:       "???",
				Description: "Unlock this secret achievement to reveal its details.",
				Category:    a.Category,
				IsSecret:    true,
			})
		default:
			summary.Locked = append(summary.Locked, a)
		}
	}
	return summary, nil
}
