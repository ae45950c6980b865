// daemon.go implements the "focusos daemon" command that ticks the timer.
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newDaemonCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the timer tick, command listener and retention cleanup",
		Long: `Run the background loop: apply queued timer commands, advance the
Pomodoro timer every tick, delete daily buckets past retentionDays and serve
Prometheus metrics when metrics.addr is set. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.openApp(cmd, o.logLevel)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.Run(ctx)
		},
	}
}
