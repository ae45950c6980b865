// templates.go implements the "focusos templates" commands managing Pomodoro templates.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"focusos/internal/app"
)

func newTemplatesCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List, add or delete Pomodoro templates",
	}

	var workMinutes, breakMinutes int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Templates.Create(ctx, args[0], workMinutes, breakMinutes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s): %dm work / %dm break\n", t.Name, t.ID, t.WorkMinutes, t.BreakMinutes)
				return nil
			})
		},
	}
	add.Flags().IntVar(&workMinutes, "work", 25, "work phase in minutes (1-240)")
	add.Flags().IntVar(&breakMinutes, "break", 5, "break phase in minutes (1-240)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List preset and custom templates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					templates, err := a.Templates.List(ctx)
					if err != nil {
						return err
					}

					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "%-44s %-16s %5s %5s  %s\n", "ID", "NAME", "WORK", "BREAK", "TYPE")
					for _, t := range templates {
						kind := "preset"
						if t.IsCustom {
							kind = "custom"
						}
						fmt.Fprintf(out, "%-44s %-16s %4dm %4dm  %s\n", t.ID, t.Name, t.WorkMinutes, t.BreakMinutes, kind)
					}
					return nil
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a custom template",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Templates.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}
