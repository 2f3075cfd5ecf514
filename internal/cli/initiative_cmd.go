package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/spf13/cobra"
)

func newInitiativeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiative",
		Aliases: []string{"init"},
		Short:   "Manage initiatives under key results",
	}

	cmd.AddCommand(
		newInitiativeAddCmd(app),
		newInitiativeListCmd(app),
		newInitiativeStatusCmd(app),
		newInitiativeRemoveCmd(app),
	)

	return cmd
}

func newInitiativeAddCmd(app *App) *cobra.Command {
	var krRef, title, description string
	var due *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an initiative to a key result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, krRef)
			if err != nil {
				return err
			}
			in := &domain.Initiative{
				KeyResultID: kr.ID,
				Title:       title,
				Description: description,
				DueDate:     due,
			}
			if err := app.Initiatives.Create(ctx, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created initiative %s (%s)\n", in.Title, in.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&krRef, "kr", "", "Key result (UUID, prefix or OBJECTIVE/N)")
	cmd.Flags().StringVar(&title, "title", "", "Initiative title")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().Var(newDateValue(&due), "due", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("kr")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newInitiativeListCmd(app *App) *cobra.Command {
	var krRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the initiatives of a key result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, krRef)
			if err != nil {
				return err
			}
			initiatives, err := app.Initiatives.ListByKeyResult(ctx, kr.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInitiativeList(initiatives))
			return nil
		},
	}

	cmd.Flags().StringVar(&krRef, "kr", "", "Key result (UUID, prefix or OBJECTIVE/N)")
	_ = cmd.MarkFlagRequired("kr")

	return cmd
}

func newInitiativeStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "status INITIATIVE STATUS",
		Short:     "Move an initiative to planned, in_progress, done or cancelled",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"planned", "in_progress", "done", "cancelled"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			status := domain.InitiativeStatus(strings.ToLower(strings.ReplaceAll(args[1], "-", "_")))
			updated, err := app.Initiatives.SetStatus(ctx, in.ID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", updated.Title, formatter.InitiativeStatusPill(updated.Status))
			return nil
		},
	}
}

func newInitiativeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove INITIATIVE",
		Short: "Delete an initiative with its tasks and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Initiatives.Delete(ctx, in.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed initiative %s\n", in.Title)
			return nil
		},
	}
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks under initiatives",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskDoneCmd(app),
		newTaskReopenCmd(app),
		newTaskListCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var initiativeRef, title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to an initiative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, initiativeRef)
			if err != nil {
				return err
			}
			task, err := app.Initiatives.AddTask(ctx, in.ID, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s (%s)\n", task.Title, task.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&initiativeRef, "initiative", "", "Initiative (UUID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	_ = cmd.MarkFlagRequired("initiative")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done TASK",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task, err := app.Initiatives.ResolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			task, err = app.Initiatives.CompleteTask(ctx, task.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StyleGreen.Render("✔"), task.Title)
			return nil
		},
	}
}

func newTaskReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen TASK",
		Short: "Mark a done task open again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task, err := app.Initiatives.ResolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			task, err = app.Initiatives.ReopenTask(ctx, task.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", task.Title)
			return nil
		},
	}
}

func newTaskListCmd(app *App) *cobra.Command {
	var initiativeRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of an initiative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := app.Initiatives.Resolve(ctx, initiativeRef)
			if err != nil {
				return err
			}
			tasks, err := app.Initiatives.ListTasks(ctx, in.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&initiativeRef, "initiative", "", "Initiative (UUID or prefix)")
	_ = cmd.MarkFlagRequired("initiative")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task, err := app.Initiatives.ResolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Initiatives.DeleteTask(ctx, task.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", task.Title)
			return nil
		},
	}
}
