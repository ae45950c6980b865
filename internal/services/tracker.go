package services

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"focusos/internal/achievements"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

// FaviconResolver finds the icon URL of a domain
type FaviconResolver interface {
	Resolve(ctx context.Context, domain string) (string, error)
}

// TrackResult describes the effect of one AddTime call
type TrackResult struct {
	AddedMs      int64 `json:"addedMs"`
	Pending      bool  `json:"pending"` // still within the first-visit tracking delay
	LimitReached bool  `json:"limitReached"`
}

// Tracker turns activity events into daily bucket updates
type Tracker struct {
	store    TrackerStore
	events   EventSink
	favicons FaviconResolver
	clock    clockwork.Clock
	logger   logging.Logger
	recorder metrics.Recorder

	mu sync.Mutex
	// dwell time of domains not yet counted today, keyed by date then domain
	pending map[string]map[string]time.Duration
}

// TrackerOption configures a Tracker
type TrackerOption func(*Tracker)

// WithTrackerClock sets the clock deciding "today"
func WithTrackerClock(clock clockwork.Clock) TrackerOption {
	return func(t *Tracker) { t.clock = clock }
}

// WithTrackerEvents sets where time-tracked and limit-reached are raised
func WithTrackerEvents(events EventSink) TrackerOption {
	return func(t *Tracker) { t.events = events }
}

// WithFavicons enables favicon lookup for visits that carry none
func WithFavicons(resolver FaviconResolver) TrackerOption {
	return func(t *Tracker) { t.favicons = resolver }
}

// WithTrackerRecorder sets the metrics recorder
func WithTrackerRecorder(r metrics.Recorder) TrackerOption {
	return func(t *Tracker) { t.recorder = metrics.OrNoop(r) }
}

// NewTracker creates a tracker
func NewTracker(store TrackerStore, logger logging.Logger, opts ...TrackerOption) *Tracker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	t := &Tracker{
		store:    store,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		pending:  make(map[string]map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) validDomain(op, domain string) (string, error) {
	domain = NormalizeDomain(domain)
	if !IsValidDomain(domain) {
		return "", repoerrors.HandleValidationError(op, "domain", domain, "not a valid domain")
	}
	return domain, nil
}

func (t *Tracker) isWhitelisted(ctx context.Context, domain string) (bool, error) {
	whitelist, err := t.store.Whitelist(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range whitelist {
		if d == domain {
			return true, nil
		}
	}
	return false, nil
}

// Visit counts a page visit to domain today. Whitelisted domains are ignored
// and reported as not tracked.
func (t *Tracker) Visit(ctx context.Context, domain, favicon string) (bool, error) {
	domain, err := t.validDomain("Visit", domain)
	if err != nil {
		return false, err
	}
	if skip, err := t.isWhitelisted(ctx, domain); err != nil || skip {
		return false, err
	}

	now := t.clock.Now()
	date := types.DateKey(now)

	if favicon == "" && t.favicons != nil {
		record, err := t.store.GetDaily(ctx, date)
		if err != nil {
			return false, err
		}
		if record[domain].Favicon == "" {
			if resolved, err := t.favicons.Resolve(ctx, domain); err != nil {
				t.logger.Debug("Favicon lookup failed", "domain", domain, "error", err)
			} else {
				favicon = resolved
			}
		}
	}

	err = t.store.UpdateDaily(ctx, date, func(record types.DailyRecord) error {
		stats := record[domain]
		stats.VisitCount++
		stats.LastVisited = types.UnixMillis(now)
		if favicon != "" {
			stats.Favicon = favicon
		}
		record[domain] = stats
		return nil
	})
	if err != nil {
		return false, err
	}

	t.logger.Debug("Visit recorded", "domain", domain, "date", date)
	return true, nil
}

// AddTime adds elapsed time on domain to today's bucket. The first time a
// domain is seen in a day it is only counted once the dwell reaches the
// tracking delay; the whole dwell is then added.
func (t *Tracker) AddTime(ctx context.Context, domain string, elapsed time.Duration) (TrackResult, error) {
	domain, err := t.validDomain("AddTime", domain)
	if err != nil {
		return TrackResult{}, err
	}
	if elapsed <= 0 {
		return TrackResult{}, nil
	}
	if skip, err := t.isWhitelisted(ctx, domain); err != nil || skip {
		return TrackResult{}, err
	}

	settings, err := t.store.Settings(ctx)
	if err != nil {
		return TrackResult{}, err
	}

	now := t.clock.Now()
	date := types.DateKey(now)

	record, err := t.store.GetDaily(ctx, date)
	if err != nil {
		return TrackResult{}, err
	}

	add := elapsed
	if record[domain].Time == 0 {
		var ready bool
		add, ready = t.dwell(date, domain, elapsed, time.Duration(settings.TrackingDelay)*time.Second)
		if !ready {
			return TrackResult{Pending: true}, nil
		}
	}

	var before, after int64
	var totalMs int64
	var domains int
	err = t.store.UpdateDaily(ctx, date, func(record types.DailyRecord) error {
		stats := record[domain]
		before = stats.Time
		stats.Time += add.Milliseconds()
		stats.LastVisited = types.UnixMillis(now)
		after = stats.Time
		record[domain] = stats

		totalMs, domains = 0, len(record)
		for _, s := range record {
			totalMs += s.Time
		}
		return nil
	})
	if err != nil {
		return TrackResult{}, err
	}
	t.recorder.AddTrackedTime(add)

	result := TrackResult{AddedMs: add.Milliseconds()}

	limits, err := t.store.SiteLimits(ctx)
	if err != nil {
		return result, err
	}
	if minutes, ok := limits[domain]; ok {
		limitMs := int64(minutes) * 60_000
		result.LimitReached = before < limitMs && after >= limitMs
	}

	t.raise(ctx, achievements.EventTimeTracked, achievements.Payload{
		TotalMinutes:   int(totalMs / 60_000),
		DomainsVisited: domains,
		At:             now,
	})
	if result.LimitReached {
		t.logger.Info("Daily limit reached", "domain", domain, "limit_minutes", limits[domain])
		t.raise(ctx, achievements.EventLimitReached, achievements.Payload{At: now})
	}
	return result, nil
}

// dwell accumulates time for a domain not yet counted today and reports
// whether the delay has been reached. Older days are dropped.
func (t *Tracker) dwell(date, domain string, elapsed, delay time.Duration) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for d := range t.pending {
		if d != date {
			delete(t.pending, d)
		}
	}
	day, ok := t.pending[date]
	if !ok {
		day = make(map[string]time.Duration)
		t.pending[date] = day
	}

	total := day[domain] + elapsed
	if total < delay {
		day[domain] = total
		return 0, false
	}
	delete(day, domain)
	return total, true
}

// AppOpened raises app-opened with the current usage streak
func (t *Tracker) AppOpened(ctx context.Context) ([]string, error) {
	streak, err := t.Streak(ctx)
	if err != nil {
		return nil, err
	}
	if t.events == nil {
		return nil, nil
	}
	return t.events.Evaluate(ctx, achievements.EventAppOpened, achievements.Payload{
		ConsecutiveDays: streak,
		At:              t.clock.Now(),
	})
}

// Streak counts consecutive days with tracked activity ending today
func (t *Tracker) Streak(ctx context.Context) (int, error) {
	keys, err := t.store.DailyKeys(ctx)
	if err != nil {
		return 0, err
	}
	days := make(map[string]bool, len(keys))
	for _, k := range keys {
		days[k] = true
	}

	streak := 0
	day := t.clock.Now()
	for days[types.DateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (t *Tracker) raise(ctx context.Context, event achievements.EventType, payload achievements.Payload) {
	if t.events == nil {
		return
	}
	if _, err := t.events.Evaluate(ctx, event, payload); err != nil {
		t.logger.Warn("Failed to evaluate achievements", "event", string(event), "error", err)
	}
}
