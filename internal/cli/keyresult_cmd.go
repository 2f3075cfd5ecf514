package cli

import (
	"fmt"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/spf13/cobra"
)

func newKeyResultCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kr",
		Aliases: []string{"key-result"},
		Short:   "Manage key results",
		Long: `Manage key results.

A key result is addressed by UUID, a unique UUID prefix, or OBJECTIVE/N for
the Nth key result of an objective (e.g. GROW01/2).`,
	}

	cmd.AddCommand(
		newKeyResultAddCmd(app),
		newKeyResultListCmd(app),
		newKeyResultUpdateCmd(app),
		newKeyResultRemoveCmd(app),
		newKeyResultCheckInCmd(app),
		newKeyResultHistoryCmd(app),
	)

	return cmd
}

func newKeyResultAddCmd(app *App) *cobra.Command {
	var objectiveRef, title string
	var mf measureFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a key result to an objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, objectiveRef)
			if err != nil {
				return err
			}
			kr := &domain.KeyResult{ObjectiveID: o.ID, Title: title}
			mf.applyTo(cmd.Flags(), &kr.Measure)
			if err := app.KeyResults.Create(ctx, kr); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created key result %s [%s/%d]\n", kr.Title, o.DisplayID(), kr.OrderIndex)
			return nil
		},
	}

	cmd.Flags().StringVar(&objectiveRef, "objective", "", "Objective (short ID or UUID)")
	cmd.Flags().StringVar(&title, "title", "", "Key result title")
	mf.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("objective")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newKeyResultListCmd(app *App) *cobra.Command {
	var objectiveRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List key results with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var krs []*domain.KeyResult
			var err error
			if objectiveRef != "" {
				o, rerr := app.Objectives.Resolve(ctx, objectiveRef)
				if rerr != nil {
					return rerr
				}
				krs, err = app.KeyResults.ListByObjective(ctx, o.ID)
			} else {
				krs, err = app.KeyResults.List(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatKeyResultList(krs, app.Calc))
			return nil
		},
	}

	cmd.Flags().StringVar(&objectiveRef, "objective", "", "Only key results of this objective")

	return cmd
}

func newKeyResultUpdateCmd(app *App) *cobra.Command {
	var title string
	var mf measureFlags

	cmd := &cobra.Command{
		Use:   "update KR",
		Short: "Update a key result's title or measure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				kr.Title = title
			}
			mf.applyTo(cmd.Flags(), &kr.Measure)
			if err := app.KeyResults.Update(ctx, kr); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated key result %s\n", kr.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Key result title")
	mf.register(cmd.Flags())

	return cmd
}

func newKeyResultRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove KR",
		Short: "Delete a key result and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.KeyResults.Delete(ctx, kr.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed key result %s\n", kr.Title)
			return nil
		},
	}
}

func newKeyResultCheckInCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "checkin KR [VALUE]",
		Short: "Record a new current value for a key result",
		Long: `Record a new current value for a key result.

Without VALUE on an interactive terminal a form asks for it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			value, note, err := checkInInput(app, kr.Title, kr.Measure, args[1:], note, cmd.Flags().Changed("note"))
			if err != nil {
				return err
			}
			res, err := app.KeyResults.CheckIn(ctx, checkInRequest(kr.ID, value, note))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheckInResult(kr.Title, kr.Unit, res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "What changed")

	return cmd
}

func newKeyResultHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history KR",
		Short: "Show recent check-ins of a key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			checkIns, err := app.KeyResults.History(ctx, kr.ID, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", formatter.Bold(kr.Title))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(checkIns, kr.Unit, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of check-ins")

	return cmd
}
