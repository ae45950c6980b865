// watch.go implements the "focusos watch" live terminal view.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/tui"
)

func newWatchCmd(o *globalOptions) *cobra.Command {
	var (
		interval time.Duration
		top      int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the timer, today's sites and XP",
		Long: `Show the timer, today's top sites and achievement progress, refreshing
on an interval and whenever another process writes to the store. Without a
terminal a single snapshot is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				opts := []tui.Option{
					tui.WithInterval(interval),
					tui.WithTop(top),
					tui.WithClock(a.Clock()),
				}
				if changes := watchStore(ctx, a); changes != nil {
					opts = append(opts, tui.WithChanges(changes))
				}

				model := tui.New(tui.Sources{
					Timer:        a.Timer,
					Sites:        a.Aggregator,
					Achievements: a.Evaluator,
				}, opts...)
				return tui.Run(ctx, model, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", tui.DefaultInterval, "polling interval")
	cmd.Flags().IntVar(&top, "top", tui.DefaultTop, "number of sites to show")
	return cmd
}

// watchStore starts a file watcher on the database and returns its change
// channel, or nil when the store cannot be watched
func watchStore(ctx context.Context, a *app.App) <-chan struct{} {
	watcher, err := a.NewWatcher()
	if err != nil {
		a.Logger.Debug("Store watcher unavailable, polling only", "error", err)
		return nil
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		err := watcher.Run(ctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Warn("Store watcher stopped", "error", err)
		}
	}()
	return changes
}
