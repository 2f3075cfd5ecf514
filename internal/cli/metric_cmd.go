package cli

import (
	"fmt"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/spf13/cobra"
)

func newMetricCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metric",
		Short: "Manage success metrics of initiatives",
	}

	cmd.AddCommand(
		newMetricAddCmd(app),
		newMetricListCmd(app),
		newMetricCheckInCmd(app),
		newMetricHistoryCmd(app),
		newMetricRemoveCmd(app),
	)

	return cmd
}

func newMetricAddCmd(app *App) *cobra.Command {
	var initiativeRef, title string
	var mf measureFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a success metric to an initiative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, initiativeRef)
			if err != nil {
				return err
			}
			m := &domain.SuccessMetric{InitiativeID: in.ID, Title: title}
			mf.applyTo(cmd.Flags(), &m.Measure)
			if err := app.Metrics.Create(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created success metric %s (%s)\n", m.Title, m.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&initiativeRef, "initiative", "", "Initiative (UUID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "Metric title")
	mf.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("initiative")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newMetricListCmd(app *App) *cobra.Command {
	var initiativeRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the success metrics of an initiative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, initiativeRef)
			if err != nil {
				return err
			}
			metrics, err := app.Metrics.ListByInitiative(ctx, in.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMetricList(metrics, app.Calc))
			return nil
		},
	}

	cmd.Flags().StringVar(&initiativeRef, "initiative", "", "Initiative (UUID or prefix)")
	_ = cmd.MarkFlagRequired("initiative")

	return cmd
}

func newMetricCheckInCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "checkin METRIC [VALUE]",
		Short: "Record a new current value for a success metric",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.Metrics.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			value, note, err := checkInInput(app, m.Title, m.Measure, args[1:], note, cmd.Flags().Changed("note"))
			if err != nil {
				return err
			}
			res, err := app.Metrics.CheckIn(ctx, checkInRequest(m.ID, value, note))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheckInResult(m.Title, m.Unit, res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "What changed")

	return cmd
}

func newMetricHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history METRIC",
		Short: "Show recent check-ins of a success metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.Metrics.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			checkIns, err := app.Metrics.History(ctx, m.ID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(checkIns, m.Unit, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of check-ins")

	return cmd
}

func newMetricRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove METRIC",
		Short: "Delete a success metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.Metrics.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Metrics.Delete(ctx, m.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed success metric %s\n", m.Title)
			return nil
		},
	}
}
