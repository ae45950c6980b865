package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                 sync.Once
	phaseTransitions     *prom.CounterVec
	sessions             *prom.CounterVec
	achievementsUnlocked *prom.CounterVec
	trackedSeconds       prom.Counter
	commands             *prom.CounterVec
	exports              *prom.CounterVec
	tickDuration         prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.phaseTransitions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "pomodoro_phase_transitions_total",
			Help:      "Pomodoro phase transitions by the phase entered",
		}, []string{"phase"})
		pr.sessions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "pomodoro_sessions_total",
			Help:      "Recorded Pomodoro sessions by outcome",
		}, []string{"outcome"})
		pr.achievementsUnlocked = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by id",
		}, []string{"id"})
		pr.trackedSeconds = prom.NewCounter(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "tracked_seconds_total",
			Help:      "Site time added to daily buckets",
		})
		pr.commands = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "commands_total",
			Help:      "Timer commands received by type and result",
		}, []string{"command", "result"})
		pr.exports = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusos",
			Name:      "exports_total",
			Help:      "Export attempts by data kind, format and result",
		}, []string{"kind", "format", "result"})
		pr.tickDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "focusos",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one scheduler tick including queued commands",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.phaseTransitions, pr.sessions, pr.achievementsUnlocked, pr.trackedSeconds, pr.commands, pr.exports, pr.tickDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncPhaseTransition(phase string) {
	if p == nil || p.phaseTransitions == nil {
		return
	}
	p.phaseTransitions.WithLabelValues(phase).Inc()
}

func (p *PrometheusRecorder) IncSessionRecorded(interrupted bool) {
	if p == nil || p.sessions == nil {
		return
	}
	outcome := "completed"
	if interrupted {
		outcome = "interrupted"
	}
	p.sessions.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncAchievementUnlocked(id string) {
	if p == nil || p.achievementsUnlocked == nil {
		return
	}
	p.achievementsUnlocked.WithLabelValues(id).Inc()
}

func (p *PrometheusRecorder) AddTrackedTime(d time.Duration) {
	if p == nil || p.trackedSeconds == nil || d <= 0 {
		return
	}
	p.trackedSeconds.Add(d.Seconds())
}

func (p *PrometheusRecorder) IncCommand(command string, result string) {
	if p == nil || p.commands == nil {
		return
	}
	p.commands.WithLabelValues(command, result).Inc()
}

func (p *PrometheusRecorder) IncExport(kind string, format string, result string) {
	if p == nil || p.exports == nil {
		return
	}
	p.exports.WithLabelValues(kind, format, result).Inc()
}

func (p *PrometheusRecorder) ObserveTickDuration(d time.Duration) {
	if p == nil || p.tickDuration == nil {
		return
	}
	p.tickDuration.Observe(d.Seconds())
}
