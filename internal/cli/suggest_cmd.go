package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest KR",
		Short: "Suggest habits that would move a key result",
		Long: `Suggest up to three habits that would move a key result.

Suggestions come from the local model when one is configured and reachable,
otherwise from built-in rules for the key result's type and status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Suggestions == nil {
				return errors.New("suggestions are not configured")
			}
			ctx := cmd.Context()
			kr, err := app.KeyResults.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking about "+kr.Title)
			}
			resp, err := app.Suggestions.Suggest(ctx, kr.ID)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestions(resp))
			return nil
		},
	}
}
