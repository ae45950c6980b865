// Package tui implements the live terminal view of the timer, today's sites
// and achievement progress using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"focusos/internal/achievements"
	"focusos/internal/export"
	"focusos/internal/types"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultTop      = 5

	loadTimeout = 5 * time.Second
)

// TimerSource reads the active timer
type TimerSource interface {
	State(ctx context.Context) (*types.PomodoroState, error)
}

// SiteSource aggregates tracked time
type SiteSource interface {
	Aggregate(ctx context.Context, r types.Range) (types.AggregatedData, error)
}

// AchievementSource reads XP and unlocks
type AchievementSource interface {
	Summary(ctx context.Context) (achievements.Summary, error)
}

// Sources are the read-only views the model polls
type Sources struct {
	Timer        TimerSource
	Sites        SiteSource
	Achievements AchievementSource
}

// Snapshot is one read of everything the view shows
type Snapshot struct {
	Timer    *types.PomodoroState
	Today    types.AggregatedData
	Progress types.XPProgress
	TotalXP  int
	Unlocked int
	LoadedAt time.Time
}

// Load reads a snapshot from src
func Load(ctx context.Context, src Sources, now time.Time) (Snapshot, error) {
	state, err := src.Timer.State(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read timer: %w", err)
	}
	today, err := src.Sites.Aggregate(ctx, types.RangeToday)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to aggregate today: %w", err)
	}
	summary, err := src.Achievements.Summary(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read achievements: %w", err)
	}

	return Snapshot{
		Timer:    state,
		Today:    today,
		Progress: summary.Progress,
		TotalXP:  summary.State.TotalXP,
		Unlocked: len(summary.State.UnlockedIDs),
		LoadedAt: now,
	}, nil
}

type snapshotMsg struct {
	snapshot Snapshot
	err      error
}

type tickMsg time.Time

type changedMsg struct{}

// Model is the watch view. It re-reads the store on every interval and
// whenever the changes channel fires.
type Model struct {
	sources  Sources
	clock    clockwork.Clock
	interval time.Duration
	changes  <-chan struct{}
	top      int

	snapshot Snapshot
	loaded   bool
	err      error
	width    int
}

// Option configures a Model
type Option func(*Model)

// WithInterval sets the polling interval
func WithInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithChanges refreshes the view whenever ch receives
func WithChanges(ch <-chan struct{}) Option {
	return func(m *Model) { m.changes = ch }
}

// WithClock sets the clock used to stamp snapshots
func WithClock(clock clockwork.Clock) Option {
	return func(m *Model) { m.clock = clock }
}

// WithTop sets how many sites are listed
func WithTop(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.top = n
		}
	}
}

// New creates a watch model over sources
func New(sources Sources, opts ...Option) Model {
	m := Model{
		sources:  sources,
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		top:      DefaultTop,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load(), m.tick()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m Model) load() tea.Cmd {
	sources, clock := m.sources, m.clock
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		snapshot, err := Load(ctx, sources, clock.Now())
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until ch receives. A closed channel ends the wait.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.load()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.load(), m.tick())
	case changedMsg:
		return m, tea.Batch(m.load(), waitForChange(m.changes))
	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snapshot, m.loaded, m.err = msg.snapshot, true, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		if m.err != nil {
			return errorStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		return "Loading..."
	}

	s := m.snapshot
	header := titleStyle.Render("FocusOS " + s.LoadedAt.Format("Mon Jan 2 15:04:05"))

	sections := []string{
		header,
		m.box(headingStyle.Render("Timer") + "\n" + timerLine(s.Timer)),
		m.box(headingStyle.Render("Today") + "\n" + m.sitesBlock(s.Today)),
		m.box(headingStyle.Render("Progress") + "\n" + progressLine(s)),
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("Refresh failed: "+m.err.Error()))
	}
	sections = append(sections, dimStyle.Render("q quit • r refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) box(content string) string {
	style := boxStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(content)
}

func timerLine(state *types.PomodoroState) string {
	if state == nil {
		return dimStyle.Render("Idle")
	}

	phase := workStyle.Render("Work")
	if state.CurrentPhase == types.PhaseBreak {
		phase = breakStyle.Render("Break")
	}

	cycles := fmt.Sprintf("cycle %d", state.CyclesCompleted+1)
	if state.TargetCycles > 0 {
		cycles = fmt.Sprintf("cycle %d/%d", min(state.CyclesCompleted+1, state.TargetCycles), state.TargetCycles)
	}

	line := fmt.Sprintf("%s %s %s · %s", state.TemplateName, phase, FormatRemaining(state.RemainingMs), cycles)
	if state.IsPaused {
		line += " " + dimStyle.Render("(paused)")
	}
	return line
}

func (m Model) sitesBlock(data types.AggregatedData) string {
	if len(data.ByDomain) == 0 {
		return dimStyle.Render("No activity tracked yet")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total %s\n", export.FormatSeconds(data.TotalTime/1000))
	for i, site := range data.ByDomain {
		if i == m.top {
			break
		}
		fmt.Fprintf(&b, "%-32s %s\n", site.Domain, export.FormatSeconds(site.Time/1000))
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressLine(s Snapshot) string {
	p := s.Progress
	xp := xpStyle.Render(fmt.Sprintf("%d XP", s.TotalXP))
	if p.Next == 0 {
		return fmt.Sprintf("Level %d (max) · %s · %d unlocked", p.Level, xp, s.Unlocked)
	}
	return fmt.Sprintf("Level %d · %d/%d to next · %s · %d unlocked", p.Level, p.Current, p.Next, xp, s.Unlocked)
}

// FormatRemaining renders milliseconds as MM:SS, rounding up partial seconds
func FormatRemaining(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := (ms + 999) / 1000
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
