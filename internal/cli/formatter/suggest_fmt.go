package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/progress"
)

// FormatSuggestions renders habit suggestions for a key result.
func FormatSuggestions(resp *app.SuggestionResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s\n\n", Bold(resp.Title), StatusPill(resp.Status),
		Dim(progress.FormatPercent(resp.Percentage)))
	for i, s := range resp.Suggestions {
		fmt.Fprintf(&b, "  %s %s\n", StylePurple.Render(fmt.Sprintf("%d.", i+1)), s.Title)
		if s.Rationale != "" {
			fmt.Fprintf(&b, "     %s\n", Dim(s.Rationale))
		}
	}
	source := "suggested by model"
	if resp.Source == app.SuggestionFromRules {
		source = "built-in suggestions"
	}
	if resp.Cached {
		source += ", cached"
	}
	fmt.Fprintf(&b, "\n%s\n", Dim(source))
	return b.String()
}
