// category.go implements the "focusos category" commands classifying sites.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/types"
)

func newCategoryCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Assign sites to productive, distraction, neutral or others",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "set <domain> <category>",
			Short:     "Assign a category to a domain",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"productive", "distraction", "neutral", "others"},
			RunE: func(cmd *cobra.Command, args []string) error {
				category, err := types.ParseCategory(args[1])
				if err != nil {
					return err
				}
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Tracker.SetCategory(ctx, args[0], category); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], category)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get <domain>",
			Short: "Show the category of a domain",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					category, err := a.Tracker.Category(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), category)
					return nil
				})
			},
		},
	)
	return cmd
}
