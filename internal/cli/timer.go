// timer.go implements the "focusos timer" commands controlling the Pomodoro timer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/messaging"
	"focusos/internal/scheduler"
)

func newTimerCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, pause, resume or stop the Pomodoro timer",
		Long: `Control the Pomodoro timer. With messaging.natsUrl configured the
command is published to the running daemon; otherwise it is applied to the
store directly and the daemon picks it up on its next tick.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start <template-id>",
			Short: "Start a template from its work phase",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					return sendTimerCommand(ctx, cmd, a, messaging.Start(args[0]))
				})
			},
		},
		timerActionCmd(o, "pause", "Pause the countdown", messaging.Pause()),
		timerActionCmd(o, "resume", "Resume a paused countdown", messaging.Resume()),
		timerActionCmd(o, "stop", "Stop and record the current session", messaging.Stop()),
		newTimerStatusCmd(o),
	)
	return cmd
}

func timerActionCmd(o *globalOptions, use, short string, c messaging.Command) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return sendTimerCommand(ctx, cmd, a, c)
			})
		},
	}
}

func sendTimerCommand(ctx context.Context, cmd *cobra.Command, a *app.App, c messaging.Command) error {
	if err := a.Send(ctx, c); err != nil {
		if repoerrors.IsNotFound(err) {
			return fmt.Errorf("unknown template %q; see \"focusos templates list\"", c.TemplateID)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if a.Remote() {
		fmt.Fprintf(out, "Sent %s\n", c.Type)
		return nil
	}

	state, err := a.Timer.State(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, describeTimer(state))
	return nil
}

func newTimerStatusCmd(o *globalOptions) *cobra.Command {
	var (
		follow   bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the timer state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if follow && interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %v", interval)
			}
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				show := func(ctx context.Context) error {
					state, err := a.Timer.State(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, describeTimer(state))
					return nil
				}

				if !follow {
					return show(ctx)
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
				err := scheduler.Poll(ctx, a.Clock(), interval, show)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing the state until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval with --follow")
	return cmd
}
