package types

// Phase is one segment of a Pomodoro cycle
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// PomodoroTemplate is a named work/break duration pair
type PomodoroTemplate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WorkMinutes  int    `json:"workMinutes"`
	BreakMinutes int    `json:"breakMinutes"`
	IsCustom     bool   `json:"isCustom"`
}

// WorkMs returns the work phase length in milliseconds
func (t PomodoroTemplate) WorkMs() int64 {
	return int64(t.WorkMinutes) * 60_000
}

// BreakMs returns the break phase length in milliseconds
func (t PomodoroTemplate) BreakMs() int64 {
	return int64(t.BreakMinutes) * 60_000
}

// PomodoroState is the persisted active timer. Its absence means idle.
type PomodoroState struct {
	CurrentTemplateID string `json:"currentTemplateId"`
	CurrentPhase      Phase  `json:"currentPhase"`
	RemainingMs       int64  `json:"remainingMs"`
	IsActive          bool   `json:"isActive"`
	IsPaused          bool   `json:"isPaused"`
	CyclesCompleted   int    `json:"cyclesCompleted"`

	// Snapshot of the template at start, used for the session record
	TemplateName string `json:"templateName"`
	WorkMinutes  int    `json:"workMinutes"`
	BreakMinutes int    `json:"breakMinutes"`
	StartTime    int64  `json:"startTime"` // unix milliseconds
	TargetCycles int    `json:"targetCycles"`
}

// PhaseDurationMs returns the full length of phase for this run
func (s PomodoroState) PhaseDurationMs(phase Phase) int64 {
	if phase == PhaseBreak {
		return int64(s.BreakMinutes) * 60_000
	}
	return int64(s.WorkMinutes) * 60_000
}

// PomodoroSession is written once per completed or interrupted run
type PomodoroSession struct {
	ID              string `json:"id"`
	TemplateID      string `json:"templateId"`
	TemplateName    string `json:"templateName"`
	WorkMinutes     int    `json:"workMinutes"`
	BreakMinutes    int    `json:"breakMinutes"`
	StartTime       int64  `json:"startTime"` // unix milliseconds
	EndTime         int64  `json:"endTime"`   // unix milliseconds
	CompletedCycles int    `json:"completedCycles"`
	Interrupted     bool   `json:"interrupted"`
}

// PomodoroStats summarizes every recorded session
type PomodoroStats struct {
	TotalSessions        int     `json:"totalSessions"`
	TotalFocusTime       int64   `json:"totalFocusTime"` // in milliseconds
	TotalBreakTime       int64   `json:"totalBreakTime"` // in milliseconds
	AverageSessionLength float64 `json:"averageSessionLength"`
	MostUsedTemplate     string  `json:"mostUsedTemplate"`
	SessionsToday        int     `json:"sessionsToday"`
}
