// settings.go implements the "focusos settings" commands.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"focusos/internal/app"
)

func newSettingsCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the tracking delay and Pomodoro cycles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the stored settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					settings, err := a.Tracker.Settings(ctx)
					if err != nil {
						return err
					}
					cycles := strconv.Itoa(settings.PomodoroCycles)
					if settings.PomodoroCycles == 0 {
						cycles = "until stopped"
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Tracking delay:   %ds\n", settings.TrackingDelay)
					fmt.Fprintf(out, "Pomodoro cycles:  %s\n", cycles)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delay <seconds>",
			Short: "Seconds on a new site before it is tracked (1-100)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				seconds, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid seconds %q: %w", args[0], err)
				}
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Tracker.SetTrackingDelay(ctx, seconds); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Tracking delay set to %ds\n", seconds)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "cycles <count>",
			Short: "Work/break cycles per timer run; 0 runs until stopped",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cycles, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid cycle count %q: %w", args[0], err)
				}
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Tracker.SetPomodoroCycles(ctx, cycles); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Pomodoro cycles set to %d\n", cycles)
					return nil
				})
			},
		},
	)
	return cmd
}
