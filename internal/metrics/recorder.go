package metrics

import "time"

// Recorder defines observability hooks for the timer, tracker and exports.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	IncPhaseTransition(phase string)
	IncSessionRecorded(interrupted bool)
	IncAchievementUnlocked(id string)
	AddTrackedTime(d time.Duration)
	IncCommand(command string, result string) // result: applied|ignored|failed
	IncExport(kind string, format string, result string)
	ObserveTickDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPhaseTransition(string)         {}
func (NoopRecorder) IncSessionRecorded(bool)           {}
func (NoopRecorder) IncAchievementUnlocked(string)     {}
func (NoopRecorder) AddTrackedTime(time.Duration)      {}
func (NoopRecorder) IncCommand(string, string)         {}
func (NoopRecorder) IncExport(string, string, string)  {}
func (NoopRecorder) ObserveTickDuration(time.Duration) {}

// OrNoop returns r, or NoopRecorder when r is nil
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
