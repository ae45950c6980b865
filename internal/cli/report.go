// report.go implements the "focusos report" command summarizing tracked time.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/services"
	"focusos/internal/types"
)

func newReportCmd(o *globalOptions) *cobra.Command {
	var (
		rangeName string
		top       int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tracked time, categories and Pomodoro sessions",
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
				breakdown, err := a.Aggregator.CategoryBreakdown(ctx, r)
				if err != nil {
					return err
				}
				stats, err := a.Sessions.Stats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				from, to := services.RangeBounds(r, a.Clock().Now())
				if from == "" {
					fmt.Fprintf(out, "Report: %s (through %s)\n\n", r, to)
				} else {
					fmt.Fprintf(out, "Report: %s (%s to %s)\n\n", r, from, to)
				}

				writeSites(out, sites, top)
				writeCategories(out, breakdown)
				writePomodoroStats(out, stats)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&rangeName, "range", "r", string(types.RangeToday), "today, week, month, year or all-time")
	cmd.Flags().IntVar(&top, "top", 10, "number of sites to list (0 lists all)")
	return cmd
}

func writeSites(out io.Writer, sites []types.DomainSummary, top int) {
	var total int64
	for _, s := range sites {
		total += s.Time
	}
	fmt.Fprintf(out, "Total tracked: %s across %d sites\n", formatMillis(total), len(sites))
	if len(sites) == 0 {
		fmt.Fprintln(out)
		return
	}

	fmt.Fprintf(out, "  %-36s %10s %7s  %s\n", "SITE", "TIME", "VISITS", "CATEGORY")
	for i, s := range sites {
		if top > 0 && i == top {
			fmt.Fprintf(out, "  ... and %d more\n", len(sites)-top)
			break
		}
		domain := s.Domain
		if s.Pinned {
			domain = "* " + domain
		}
		fmt.Fprintf(out, "  %-36s %10s %7d  %s\n", domain, formatMillis(s.Time), s.VisitCount, s.Category)
	}
	fmt.Fprintln(out)
}

func writeCategories(out io.Writer, breakdown []types.CategoryTotal) {
	fmt.Fprintln(out, "By category:")
	for _, c := range breakdown {
		fmt.Fprintf(out, "  %-12s %10s %4d sites\n", c.Category, formatMillis(c.Time), c.Sites)
	}
	fmt.Fprintln(out)
}

func writePomodoroStats(out io.Writer, stats types.PomodoroStats) {
	fmt.Fprintln(out, "Pomodoro:")
	fmt.Fprintf(out, "  Sessions:      %d (%d today)\n", stats.TotalSessions, stats.SessionsToday)
	fmt.Fprintf(out, "  Focus time:    %s\n", formatMillis(stats.TotalFocusTime))
	fmt.Fprintf(out, "  Break time:    %s\n", formatMillis(stats.TotalBreakTime))
	fmt.Fprintf(out, "  Average:       %s\n", formatMillis(int64(stats.AverageSessionLength)))
	fmt.Fprintf(out, "  Most used:     %s\n", stats.MostUsedTemplate)
}
