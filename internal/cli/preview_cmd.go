package cli

import (
	"fmt"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	var metricType, unit, base, current, target string
	var updated bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute progress for values without saving anything",
		Long: `Compute the percentage and status a measure would have.

Values are read the way check-ins and imports read them: numbers or numeric
strings, with anything unreadable counting as zero.`,
		Example: "  okra preview --type decrease_to --base 100 --current 25 --target 0",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.PreviewRequest{
				Type:       metricType,
				Unit:       unit,
				Target:     target,
				HasUpdates: updated || cmd.Flags().Changed("current"),
			}
			if cmd.Flags().Changed("base") {
				req.Base = base
			}
			if cmd.Flags().Changed("current") {
				req.Current = current
			}
			resp, err := app.Preview.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreview(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&metricType, "type", "", "Metric type: "+metricTypeList())
	cmd.Flags().StringVar(&unit, "unit", "number", "Unit: number, percentage or currency")
	cmd.Flags().StringVar(&base, "base", "", "Starting value")
	cmd.Flags().StringVar(&current, "current", "", "Current value")
	cmd.Flags().StringVar(&target, "target", "", "Target value")
	cmd.Flags().BoolVar(&updated, "updated", false, "Treat the item as checked in even without --current")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
