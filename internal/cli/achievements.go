// achievements.go implements the "focusos achievements" command showing XP and unlocks.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"focusos/internal/achievements"
	"focusos/internal/app"
)

func newAchievementsCmd(o *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show level, XP and unlocked achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				summary, err := a.Evaluator.Summary(ctx)
				if err != nil {
					return err
				}
				writeAchievements(cmd.OutOrStdout(), summary, all)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list locked achievements")
	cmd.AddCommand(newAchievementEventCmd(o))
	return cmd
}

func newAchievementEventCmd(o *globalOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "event <logo-click|app-opened|misc>",
		Short: "Raise a user event and report new unlocks",
		Long: `Raise an event coming from the user interface. logo-click takes the
number of clicks with --count. app-opened and misc carry the current
activity streak. Other events are raised by the timer and tracker.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(achievements.EventLogoClick), string(achievements.EventAppOpened), string(achievements.EventMisc)},
		RunE: func(cmd *cobra.Command, args []string) error {
			event, ok := achievements.ParseEventType(args[0])
			if !ok {
				return fmt.Errorf("unknown event %q", args[0])
			}
			switch event {
			case achievements.EventLogoClick, achievements.EventAppOpened, achievements.EventMisc:
			default:
				return fmt.Errorf("event %q is raised by the timer or tracker", event)
			}
			if count < 0 {
				return fmt.Errorf("--count cannot be negative, got %d", count)
			}

			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var (
					ids []string
					err error
				)
				if event == achievements.EventAppOpened {
					ids, err = a.Tracker.AppOpened(ctx)
				} else {
					payload := achievements.Payload{ClickCount: count, At: a.Clock().Now()}
					if event == achievements.EventMisc {
						if payload.ConsecutiveDays, err = a.Tracker.Streak(ctx); err != nil {
							return err
						}
					}
					ids, err = a.Evaluator.Evaluate(ctx, event, payload)
				}
				if err != nil {
					return err
				}
				writeUnlocks(cmd.OutOrStdout(), ids)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "click count for logo-click")
	return cmd
}

func writeUnlocks(out io.Writer, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(out, "No new achievements")
		return
	}
	for _, id := range ids {
		if a, ok := achievements.Lookup(id); ok {
			fmt.Fprintf(out, "Unlocked %s (+%d XP)\n", a.Title, a.XP)
		}
	}
}

func writeAchievements(out io.Writer, s achievements.Summary, all bool) {
	p := s.Progress
	fmt.Fprintf(out, "Level %d  %d XP\n", p.Level, s.State.TotalXP)
	if p.Next > 0 {
		fmt.Fprintf(out, "%s %d/%d to level %d\n", progressBar(p.Current, p.Next, 20), p.Current, p.Next, p.Level+1)
	} else {
		fmt.Fprintf(out, "%s max level\n", progressBar(1, 1, 20))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Unlocked (%d/%d):\n", len(s.Unlocked), len(achievements.Catalog))
	if len(s.Unlocked) == 0 {
		fmt.Fprintln(out, "  none yet")
	}
	for _, a := range s.Unlocked {
		fmt.Fprintf(out, "  %-18s %4d XP  %s\n", a.Title, a.XP, a.Description)
	}

	if !all {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Locked:")
	for _, a := range s.Locked {
		fmt.Fprintf(out, "  %-18s %4d XP  %s\n", a.Title, a.XP, a.Description)
	}
}
