package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/spf13/cobra"
)

func newObjectiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objective",
		Aliases: []string{"obj"},
		Short:   "Manage objectives",
	}

	cmd.AddCommand(
		newObjectiveAddCmd(app),
		newObjectiveListCmd(app),
		newObjectiveShowCmd(app),
		newObjectiveUpdateCmd(app),
		newObjectiveArchiveCmd(app),
		newObjectiveUnarchiveCmd(app),
		newObjectiveRemoveCmd(app),
	)

	return cmd
}

// objectiveFlags are shared by add and update.
type objectiveFlags struct {
	title, description, owner, period, parent, status string
	targetDate                                        *time.Time
	target                                            *dateValue
}

func (f *objectiveFlags) register(cmd *cobra.Command) {
	f.target = newDateValue(&f.targetDate)
	cmd.Flags().StringVar(&f.title, "title", "", "Objective title")
	cmd.Flags().StringVar(&f.description, "description", "", "Longer description")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&f.period, "period", "", "Cycle label, e.g. 2026-Q4")
	cmd.Flags().StringVar(&f.parent, "parent", "", "Parent objective (short ID or UUID)")
	cmd.Flags().Var(f.target, "target-date", "Target date (YYYY-MM-DD)")
}

func (f *objectiveFlags) apply(ctx context.Context, cmd *cobra.Command, app *App, o *domain.Objective) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		o.Title = f.title
	}
	if flags.Changed("description") {
		o.Description = f.description
	}
	if flags.Changed("owner") {
		o.Owner = f.owner
	}
	if flags.Changed("period") {
		o.Period = f.period
	}
	if flags.Changed("status") {
		o.Status = domain.ObjectiveStatus(strings.ToLower(f.status))
	}
	if f.target.set {
		o.TargetDate = f.targetDate
	}
	if flags.Changed("parent") {
		if f.parent == "" {
			o.ParentID = nil
			return nil
		}
		parent, err := app.Objectives.Resolve(ctx, f.parent)
		if err != nil {
			return fmt.Errorf("parent %q: %w", f.parent, err)
		}
		o.ParentID = &parent.ID
	}
	return nil
}

func newObjectiveAddCmd(app *App) *cobra.Command {
	var shortID string
	var f objectiveFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o := &domain.Objective{ShortID: shortID}
			if err := f.apply(ctx, cmd, app, o); err != nil {
				return err
			}
			if err := app.Objectives.Create(ctx, o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created objective %s [%s]\n", o.Title, o.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. GROW01)")
	f.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newObjectiveListCmd(app *App) *cobra.Command {
	var all bool
	var period string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objectives, err := app.Objectives.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if period != "" {
				filtered := objectives[:0]
				for _, o := range objectives {
					if strings.EqualFold(o.Period, period) {
						filtered = append(filtered, o)
					}
				}
				objectives = filtered
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatObjectiveList(objectives))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived objectives")
	cmd.Flags().StringVar(&period, "period", "", "Only objectives in this cycle")

	return cmd
}

func newObjectiveShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an objective with its key results and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			view, err := objectiveView(ctx, app, o.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatObjectiveDetail(o, view, app.now()))
			return nil
		},
	}
}

// objectiveView computes the dashboard subtree rooted at id.
func objectiveView(ctx context.Context, app *App, id string) (*contract.ObjectiveView, error) {
	req := contract.NewDashboardRequest()
	req.ObjectiveScope = []string{id}
	req.IncludeArchived = true
	resp, err := app.Dashboard.GetDashboard(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Objectives) == 0 {
		return nil, fmt.Errorf("objective %s missing from dashboard", id)
	}
	return &resp.Objectives[0], nil
}

func newObjectiveUpdateCmd(app *App) *cobra.Command {
	var f objectiveFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := f.apply(ctx, cmd, app, o); err != nil {
				return err
			}
			if err := app.Objectives.Update(ctx, o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated objective %s [%s]\n", o.Title, o.DisplayID())
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.status, "status", "", "Status: active, paused or done")

	return cmd
}

func newObjectiveArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Objectives.Archive(ctx, o.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived objective %s\n", o.DisplayID())
			return nil
		},
	}
}

func newObjectiveUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive ID",
		Short: "Restore an archived objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Objectives.Unarchive(ctx, o.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived objective %s\n", o.DisplayID())
			return nil
		},
	}
}

func newObjectiveRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.Objectives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Objectives.Delete(ctx, o.ID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed objective %s\n", o.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the objective is not archived")

	return cmd
}
