package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

const dashboardBarWidth = 20

// DashboardOptions controls how much of the tree FormatDashboard prints.
type DashboardOptions struct {
	ShowInitiatives bool
	ShowMetrics     bool
}

// FormatDashboard renders the objective tree with bars, followed by the
// status summary and any warnings.
func FormatDashboard(resp *app.DashboardResponse, opts DashboardOptions) string {
	var b strings.Builder
	b.WriteString(Header("OKR Dashboard"))
	b.WriteString("\n\n")

	if len(resp.Objectives) == 0 {
		b.WriteString(Dim("No objectives yet. Add one with `okra objective add`."))
		b.WriteString("\n")
		return b.String()
	}

	resp.Walk(func(o *app.ObjectiveView, depth int) {
		indent := strings.Repeat("  ", depth)
		b.WriteString(objectiveLine(o, indent))
		for _, kr := range o.KeyResults {
			b.WriteString(keyResultLine(kr, indent+"  "))
			if !opts.ShowInitiatives {
				continue
			}
			for _, in := range kr.Initiatives {
				b.WriteString(initiativeLine(in, indent+"    "))
				if !opts.ShowMetrics {
					continue
				}
				for _, m := range in.Metrics {
					b.WriteString(metricLine(m, indent+"      "))
				}
			}
		}
		b.WriteString("\n")
	})

	b.WriteString(FormatSummary(resp.Summary))
	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("! " + w))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func objectiveLine(o *app.ObjectiveView, indent string) string {
	id := StylePurple.Render(fmt.Sprintf("%-8s", o.ShortID))
	title := Bold(o.Title)
	if o.Period != "" {
		title += " " + Dim("("+o.Period+")")
	}
	return fmt.Sprintf("%s%s %s  %s  %s\n", indent, id, title,
		RenderProgress(o.Progress.Percentage, o.Progress.Status, dashboardBarWidth),
		StatusPill(o.Progress.Status))
}

func keyResultLine(kr app.KeyResultView, indent string) string {
	values := fmt.Sprintf("%s / %s",
		progress.FormatValue(kr.Measure.CurrentValue, kr.Measure.Unit),
		progress.FormatValue(&kr.Measure.TargetValue, kr.Measure.Unit))
	return fmt.Sprintf("%s%s %s  %s  %s\n", indent, Dim("KR"), kr.Title,
		RenderProgress(kr.Progress.Percentage, kr.Progress.Status, dashboardBarWidth-4),
		Dim(values))
}

func initiativeLine(in app.InitiativeView, indent string) string {
	tasks := ""
	if in.TasksTotal > 0 {
		tasks = Dim(fmt.Sprintf(" %d/%d tasks", in.TasksDone, in.TasksTotal))
	}
	return fmt.Sprintf("%s%s %s  %s%s\n", indent, InitiativeStatusPill(in.Status), in.Title,
		StatusStyle(in.Progress.Status).Render(progress.FormatPercent(in.Progress.Percentage)), tasks)
}

func metricLine(m app.MetricView, indent string) string {
	return fmt.Sprintf("%s%s %s  %s\n", indent, Dim("◦"), m.Title,
		StatusStyle(m.Progress.Status).Render(progress.FormatPercent(m.Progress.Percentage)))
}

// FormatSummary renders the per-status objective counts and the average.
func FormatSummary(s app.DashboardSummary) string {
	parts := make([]string, 0, len(domain.ProgressStatuses))
	for _, st := range domain.ProgressStatuses {
		n := s.CountsByStatus[st]
		if n == 0 {
			continue
		}
		parts = append(parts, StatusStyle(st).Render(fmt.Sprintf("%d %s", n, strings.ToLower(StatusLabel(st)))))
	}
	line := fmt.Sprintf("%s %d objectives", Bold("Summary:"), s.CountsTotal)
	if len(parts) > 0 {
		line += "  " + strings.Join(parts, Dim(" · "))
	}
	line += "  " + Dim("avg "+progress.FormatPercent(s.AveragePct))
	return line + "\n"
}
