// track.go implements the "focusos track" commands feeding activity into the daily buckets.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focusos/internal/app"
)

func newTrackCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record site visits and time",
		Long: `Record activity for a domain in today's bucket. Whitelisted domains are
ignored. The first time a domain is seen in a day, time is only counted once
the tracking delay has passed.`,
	}

	var favicon string
	visit := &cobra.Command{
		Use:   "visit <domain>",
		Short: "Count a page visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tracked, err := a.Tracker.Visit(ctx, args[0], favicon)
				if err != nil {
					return err
				}
				if !tracked {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is whitelisted, not tracked\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Visit recorded for %s\n", args[0])
				return nil
			})
		},
	}
	visit.Flags().StringVar(&favicon, "favicon", "", "favicon URL to store with the visit")

	cmd.AddCommand(
		visit,
		&cobra.Command{
			Use:   "time <domain> <duration>",
			Short: `Add time on a domain, e.g. "track time github.com 5m"`,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				elapsed, err := time.ParseDuration(args[1])
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", args[1], err)
				}
				if elapsed <= 0 {
					return fmt.Errorf("duration must be positive, got %v", elapsed)
				}

				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					result, err := a.Tracker.AddTime(ctx, args[0], elapsed)
					if err != nil {
						return err
					}

					out := cmd.OutOrStdout()
					switch {
					case result.Pending:
						fmt.Fprintf(out, "%s is within the tracking delay, not counted yet\n", args[0])
					case result.AddedMs == 0:
						fmt.Fprintf(out, "%s is whitelisted, not tracked\n", args[0])
					default:
						fmt.Fprintf(out, "Tracked %s on %s\n", formatMillis(result.AddedMs), args[0])
					}
					if result.LimitReached {
						fmt.Fprintf(out, "Daily limit reached for %s\n", args[0])
					}
					return nil
				})
			},
		},
	)
	return cmd
}
