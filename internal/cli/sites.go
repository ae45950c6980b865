// sites.go implements the "focusos sites" commands for pinned sites and daily limits.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/types"
)

func newSitesCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List tracked sites, pin them and set daily limits",
	}

	var rangeName string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sites for a range, pinned first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := types.ParseRange(rangeName)
			if err != nil {
				return err
			}
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				sites, err := a.Aggregator.Sites(ctx, r)
				if err != nil {
					return err
				}
				writeSites(cmd.OutOrStdout(), sites, 0)
				return nil
			})
		},
	}
	list.Flags().StringVarP(&rangeName, "range", "r", string(types.RangeToday), "today, week, month, year or all-time")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "pin <domain>",
			Short: "Pin or unpin a site",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					pinned, err := a.Tracker.TogglePinned(ctx, args[0])
					if err != nil {
						return err
					}
					state := "Unpinned"
					if pinned {
						state = "Pinned"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "limit <domain> <minutes>",
			Short: "Set a daily limit in minutes; 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				minutes, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid minutes %q: %w", args[1], err)
				}
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Tracker.SetLimit(ctx, args[0], minutes); err != nil {
						return err
					}
					if minutes == 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "Removed limit for %s\n", args[0])
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "Limit for %s set to %dm per day\n", args[0], minutes)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "limits",
			Short: "List daily limits",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					limits, err := a.Tracker.Limits(ctx)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if len(limits) == 0 {
						fmt.Fprintln(out, "No limits set")
						return nil
					}
					domains := make([]string, 0, len(limits))
					for d := range limits {
						domains = append(domains, d)
					}
					sort.Strings(domains)
					for _, d := range domains {
						fmt.Fprintf(out, "%-36s %4dm\n", d, limits[d])
					}
					return nil
				})
			},
		},
	)
	return cmd
}
