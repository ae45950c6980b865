package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CommandNotifier delivers notifications by running a desktop helper binary
type CommandNotifier struct {
	name string
	args func(Notification) []string
	run  runFunc
}

// Notify runs the helper and returns its output on failure
func (c *CommandNotifier) Notify(ctx context.Context, n Notification) error {
	out, err := c.run(ctx, c.name, c.args(n)...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("%s failed: %w", c.name, err)
	}
	return nil
}

// notifySendArgs builds the freedesktop notify-send invocation
func notifySendArgs(n Notification) []string {
	return []string{"--app-name=FocusOS", n.Title, n.Message}
}

// osascriptArgs builds the macOS "display notification" invocation
func osascriptArgs(n Notification) []string {
	script := fmt.Sprintf("display notification %s with title %s", appleScriptString(n.Message), appleScriptString(n.Title))
	return []string{"-e", script}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// newCommandNotifier returns a CommandNotifier for name, or a LogNotifier
// when name is not on PATH
func newCommandNotifier(name string, args func(Notification) []string, fallback Notifier) Notifier {
	if _, err := exec.LookPath(name); err != nil {
		return fallback
	}
	return &CommandNotifier{name: name, args: args, run: runCommand}
}
