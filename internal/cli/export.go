// export.go implements the "focusos export" command writing CSV or PDF reports.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"focusos/internal/app"
	"focusos/internal/export"
	repoerrors "focusos/internal/infrastructure/errors"
)

func newExportCmd(o *globalOptions) *cobra.Command {
	var (
		kindName string
		dir      string
	)

	kinds := make([]string, len(export.Kinds))
	for i, k := range export.Kinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "export <csv|pdf>",
		Short: "Export daily activity, site totals or Pomodoro sessions",
		Long: `Write an export file named focusos_<kind>_export_<date>.<csv|pdf>.

Kinds:
  daily     one row per site per day
  sites     all-time totals per site
  pomodoro  one row per recorded session`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(export.FormatCSV), string(export.FormatPDF)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}
			kind, err := export.ParseKind(kindName)
			if err != nil {
				return err
			}

			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				target := dir
				if !cmd.Flags().Changed("dir") {
					target = a.Config.Export.Dir
				}

				path, err := a.Exporter.ExportFile(ctx, kind, format, target)
				switch {
				case repoerrors.IsEmptyData(err):
					fmt.Fprintln(cmd.OutOrStdout(), "No data to export")
					return nil
				case repoerrors.IsStorageFailure(err):
					fmt.Fprintf(cmd.ErrOrStderr(), "Export failed: %v\n", err)
					return errReported
				case err != nil:
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", string(export.KindDaily), strings.Join(kinds, ", "))
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default export.dir from the config)")
	return cmd
}
