package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/app"
)

// FormatPreview renders the update-preview panel.
func FormatPreview(resp *app.PreviewResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-9s %s\n", Dim("Current"), resp.Current)
	fmt.Fprintf(&b, "  %-9s %s\n", Dim("Target"), resp.Target)
	fmt.Fprintf(&b, "  %-9s %s %s\n", Dim("Progress"),
		RenderProgress(resp.Percentage, resp.Status, dashboardBarWidth), StatusPill(resp.Status))
	if !resp.KnownType {
		fmt.Fprintf(&b, "\n  %s\n", StyleYellow.Render("! unknown metric type, using current/target ratio"))
	}
	return RenderBox("Preview", strings.TrimRight(b.String(), "\n")) + "\n"
}
