package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/dustin/go-humanize"
)

// FormatCheckInResult renders the outcome of a check-in: the value change,
// the new progress and whether the status label changed.
func FormatCheckInResult(title string, unit domain.Unit, res *app.CheckInResult) string {
	var b strings.Builder
	value := res.CheckIn.Value
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Checked in"), Bold(title))
	fmt.Fprintf(&b, "  %s → %s\n",
		Dim(progress.FormatValue(res.CheckIn.PreviousValue, unit)),
		progress.FormatValue(&value, unit))
	fmt.Fprintf(&b, "  %s %s\n",
		RenderProgress(res.Progress.Percentage, res.Progress.Status, dashboardBarWidth),
		StatusPill(res.Progress.Status))
	if res.Crossed() {
		fmt.Fprintf(&b, "  %s %s → %s\n", Dim("Status changed:"),
			StatusLabel(res.Before.Status), StatusStyle(res.Progress.Status).Render(StatusLabel(res.Progress.Status)))
	}
	return b.String()
}

// FormatHistory lists check-ins newest first.
func FormatHistory(checkIns []*domain.CheckIn, unit domain.Unit, now time.Time) string {
	if len(checkIns) == 0 {
		return Dim("No check-ins yet.") + "\n"
	}
	rows := make([][]string, 0, len(checkIns))
	for _, c := range checkIns {
		value := c.Value
		rows = append(rows, []string{
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			Dim(humanize.RelTime(c.CreatedAt, now, "ago", "from now")),
			progress.FormatValue(c.PreviousValue, unit),
			progress.FormatValue(&value, unit),
			valueOrDash(c.Source),
			c.Note,
		})
	}
	return RenderTable([]string{"WHEN", "", "FROM", "TO", "SOURCE", "NOTE"}, rows)
}
