package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/contract"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var scope []string
	var period string
	var archived, initiatives, metrics, interactive bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show progress of every objective",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewDashboardRequest()
			req.ObjectiveScope = scope
			req.Period = period
			req.IncludeArchived = archived

			load := func(ctx context.Context) (*contract.DashboardResponse, error) {
				return app.Dashboard.GetDashboard(ctx, req)
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				m := newDashboardModel(cmd.Context(), load)
				_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
				return err
			}

			resp, err := load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(resp, formatter.DashboardOptions{
				ShowInitiatives: initiatives || metrics,
				ShowMetrics:     metrics,
			}))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scope, "scope", nil, "Only these objectives (short IDs or UUIDs)")
	cmd.Flags().StringVar(&period, "period", "", "Only objectives in this cycle")
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived objectives")
	cmd.Flags().BoolVar(&initiatives, "initiatives", false, "Show initiatives under key results")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Show initiatives and their success metrics")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the tree interactively")

	return cmd
}
