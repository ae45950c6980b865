// whitelist.go implements the "focusos whitelist" commands for untracked domains.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"focusos/internal/app"
)

func newWhitelistCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Manage domains that are never tracked",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List whitelisted domains",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					list, err := a.Tracker.Whitelist(ctx)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if len(list) == 0 {
						fmt.Fprintln(out, "Whitelist is empty")
						return nil
					}
					for _, d := range list {
						fmt.Fprintln(out, d)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <domain>...",
			Short: "Stop tracking domains",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					for _, d := range args {
						if err := a.Tracker.AddToWhitelist(ctx, d); err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "Whitelisted %s\n", d)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <domain>...",
			Short: "Resume tracking domains",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					for _, d := range args {
						if err := a.Tracker.RemoveFromWhitelist(ctx, d); err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", d)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every whitelisted domain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Tracker.ClearWhitelist(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Whitelist cleared")
					return nil
				})
			},
		},
	)
	return cmd
}
