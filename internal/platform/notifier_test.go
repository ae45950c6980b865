package platform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"focusos/internal/testutils"
)

func TestCommandNotifier_Notify(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotArgs []string
	notifier := &CommandNotifier{
		name: "notify-send",
		args: notifySendArgs,
		run: func(_ context.Context, name string, args ...string) ([]byte, error) {
			gotName, gotArgs = name, args
			return nil, nil
		},
	}

	err := notifier.Notify(context.Background(), Notification{Title: "Achievement Unlocked! 🏆", Message: "First Step"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if gotName != "notify-send" {
		t.Errorf("Expected notify-send, got %q", gotName)
	}
	if len(gotArgs) != 3 || gotArgs[1] != "Achievement Unlocked! 🏆" || gotArgs[2] != "First Step" {
		t.Errorf("Unexpected args: %q", gotArgs)
	}
}

func TestCommandNotifier_Failure(t *testing.T) {
	t.Parallel()

	notifier := &CommandNotifier{
		name: "notify-send",
		args: notifySendArgs,
		run: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("no display\n"), errors.New("exit status 1")
		},
	}

	err := notifier.Notify(context.Background(), Notification{Title: "t", Message: "m"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "no display") {
		t.Errorf("Expected command output in error, got %v", err)
	}
}

func TestOsascriptArgs_Escaping(t *testing.T) {
	t.Parallel()

	args := osascriptArgs(Notification{Title: `Say "hi"`, Message: `back\slash`})
	if len(args) != 2 || args[0] != "-e" {
		t.Fatalf("Unexpected args: %q", args)
	}
	expected := `display notification "back\\slash" with title "Say \"hi\""`
	if args[1] != expected {
		t.Errorf("Expected %s, got %s", expected, args[1])
	}
}

func TestNewCommandNotifier_FallbackWhenMissing(t *testing.T) {
	t.Parallel()

	fallback := LogNotifier{}
	notifier := newCommandNotifier("focusos-no-such-binary", notifySendArgs, fallback)
	if _, ok := notifier.(LogNotifier); !ok {
		t.Errorf("Expected LogNotifier fallback, got %T", notifier)
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	rec := &testutils.RecordingLogger{}
	if err := (LogNotifier{Logger: rec}).Notify(context.Background(), Notification{Title: "T", Message: "M"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	calls := rec.Calls("INFO")
	if len(calls) != 1 {
		t.Fatalf("Expected 1 info call, got %d", len(calls))
	}
	fields := testutils.FieldsToMap(t, calls[0].Fields)
	if fields["title"] != "T" || fields["message"] != "M" {
		t.Errorf("Unexpected fields: %v", fields)
	}
}
