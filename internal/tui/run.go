package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run shows m in the alternate screen until the user quits or ctx is
// cancelled. Without a terminal it prints a single snapshot to w.
func Run(ctx context.Context, m Model, w io.Writer) error {
	if !IsTTY() {
		return PrintOnce(ctx, m, w)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// PrintOnce loads one snapshot and writes the rendered view to w
func PrintOnce(ctx context.Context, m Model, w io.Writer) error {
	snapshot, err := Load(ctx, m.sources, m.clock.Now())
	if err != nil {
		return err
	}
	m.snapshot, m.loaded = snapshot, true
	_, err = fmt.Fprint(w, m.View())
	return err
}
