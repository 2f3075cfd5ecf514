package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/intelligence"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Objectives  service.ObjectiveService
	KeyResults  service.KeyResultService
	Initiatives service.InitiativeService
	Metrics     service.SuccessMetricService
	Dashboard   service.DashboardService
	Preview     service.PreviewService
	Import      service.ImportService
	Export      service.ExportService
	Suggestions intelligence.SuggestionService
	Calc        progress.Calculator

	Version string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context, addr string) error
	// ServeMCP runs the MCP server on stdio.
	ServeMCP func(ctx context.Context) error
	// Now is the clock used for relative dates. Nil means time.Now.
	Now func() time.Time
}

// NewApp exposes the services of set to the commands.
func NewApp(set *service.Set) *App {
	return &App{
		Objectives:  set.Objectives,
		KeyResults:  set.KeyResults,
		Initiatives: set.Initiatives,
		Metrics:     set.Metrics,
		Dashboard:   set.Dashboard,
		Preview:     set.Preview,
		Import:      set.Import,
		Export:      set.Export,
		Calc:        set.Calc,
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "okra" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "okra",
		Short:         "Track objectives, key results and their progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newObjectiveCmd(app),
		newKeyResultCmd(app),
		newInitiativeCmd(app),
		newTaskCmd(app),
		newMetricCmd(app),
		newDashboardCmd(app),
		newPreviewCmd(app),
		newSuggestCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
		newVersionCmd(app),
	)

	return root
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the okra version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := app.Version
			if version == "" {
				version = "dev"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "okra %s\n", version)
			return nil
		},
	}
}
