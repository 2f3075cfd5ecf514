package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/exporter"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import objectives from a YAML or JSON document",
		Long: `Import objectives from a YAML or JSON document.

The whole document is validated first and written in one transaction, so a
file with any error imports nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s, %s, %s, %s and %s\n",
				english.Plural(res.Objectives, "objective", ""),
				english.Plural(res.KeyResults, "key result", ""),
				english.Plural(res.Initiatives, "initiative", ""),
				english.Plural(res.Tasks, "task", ""),
				english.Plural(res.Metrics, "success metric", ""))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var output, period string
	var scope []string
	var archived bool
	format := exporter.FormatYAML

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export objectives with computed progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewDashboardRequest()
			req.ObjectiveScope = scope
			req.Period = period
			req.IncludeArchived = archived

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := app.Export.Export(cmd.Context(), req, format, w); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().VarP(formatValue{&format}, "format", "f", "Document format: yaml, toml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringSliceVar(&scope, "scope", nil, "Only these objectives (short IDs or UUIDs)")
	cmd.Flags().StringVar(&period, "period", "", "Only objectives in this cycle")
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived objectives")

	return cmd
}
