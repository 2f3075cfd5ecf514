package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

// FormatObjectiveList renders objectives as a table.
func FormatObjectiveList(objectives []*domain.Objective) string {
	if len(objectives) == 0 {
		return Dim("No objectives found.") + "\n"
	}
	rows := make([][]string, 0, len(objectives))
	for _, o := range objectives {
		rows = append(rows, []string{
			StylePurple.Render(o.DisplayID()),
			o.Title,
			ObjectiveStatusPill(o.Status),
			valueOrDash(o.Owner),
			valueOrDash(o.Period),
			dateOrDash(o.TargetDate),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "OWNER", "PERIOD", "TARGET"}, rows)
}

// FormatObjectiveDetail renders one objective with its computed view: key
// results, initiatives and child objectives.
func FormatObjectiveDetail(o *domain.Objective, view *app.ObjectiveView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", StylePurple.Render(o.DisplayID()), Bold(o.Title))
	if o.Description != "" {
		fmt.Fprintf(&b, "%s\n", Dim(o.Description))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %-10s %s\n", Dim("Status"), ObjectiveStatusPill(o.Status))
	if o.Owner != "" {
		fmt.Fprintf(&b, "  %-10s %s\n", Dim("Owner"), o.Owner)
	}
	if o.Period != "" {
		fmt.Fprintf(&b, "  %-10s %s\n", Dim("Period"), o.Period)
	}
	if o.TargetDate != nil {
		fmt.Fprintf(&b, "  %-10s %s %s\n", Dim("Target"), o.TargetDate.Format(time.DateOnly),
			Dim("("+RelativeDateFrom(*o.TargetDate, now)+")"))
	}
	fmt.Fprintf(&b, "  %-10s %s %s\n", Dim("Progress"),
		RenderProgress(view.Progress.Percentage, view.Progress.Status, dashboardBarWidth),
		StatusPill(view.Progress.Status))

	if len(view.KeyResults) > 0 {
		b.WriteString("\n" + Header("Key Results") + "\n")
		b.WriteString(FormatKeyResultViews(view.KeyResults))
	}
	if len(view.Children) > 0 {
		b.WriteString("\n" + Header("Child Objectives") + "\n")
		for _, c := range view.Children {
			fmt.Fprintf(&b, "  %s %s  %s\n", StylePurple.Render(c.ShortID), c.Title,
				StatusStyle(c.Progress.Status).Render(progress.FormatPercent(c.Progress.Percentage)))
		}
	}
	return b.String()
}

// FormatKeyResultViews renders computed key results as a numbered table. The
// number is the N in an OBJ/N reference.
func FormatKeyResultViews(krs []app.KeyResultView) string {
	if len(krs) == 0 {
		return Dim("No key results.") + "\n"
	}
	rows := make([][]string, 0, len(krs))
	for i, kr := range krs {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			kr.Title,
			string(kr.Measure.Type),
			progress.FormatValue(kr.Measure.CurrentValue, kr.Measure.Unit),
			progress.FormatValue(&kr.Measure.TargetValue, kr.Measure.Unit),
			RenderProgress(kr.Progress.Percentage, kr.Progress.Status, 10),
			StatusPill(kr.Progress.Status),
		})
	}
	return RenderTable([]string{"#", "KEY RESULT", "TYPE", "CURRENT", "TARGET", "PROGRESS", "STATUS"}, rows)
}

// FormatKeyResultList renders stored key results with their calculator
// results, as `kr list` does.
func FormatKeyResultList(krs []*domain.KeyResult, calc progress.Calculator) string {
	if len(krs) == 0 {
		return Dim("No key results found.") + "\n"
	}
	rows := make([][]string, 0, len(krs))
	for i, kr := range krs {
		r := calc.Measure(kr.Measure)
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			TruncID(kr.ID),
			kr.Title,
			string(kr.Type),
			progress.FormatValue(kr.CurrentValue, kr.Unit),
			progress.FormatValue(&kr.TargetValue, kr.Unit),
			StatusPill(r.Status) + " " + progress.FormatPercent(r.Percentage),
		})
	}
	return RenderTable([]string{"#", "ID", "KEY RESULT", "TYPE", "CURRENT", "TARGET", "STATUS"}, rows)
}

// FormatMetricList renders success metrics with their calculator results.
func FormatMetricList(metrics []*domain.SuccessMetric, calc progress.Calculator) string {
	if len(metrics) == 0 {
		return Dim("No success metrics found.") + "\n"
	}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		r := calc.Measure(m.Measure)
		rows = append(rows, []string{
			TruncID(m.ID),
			m.Title,
			string(m.Type),
			progress.FormatValue(m.CurrentValue, m.Unit),
			progress.FormatValue(&m.TargetValue, m.Unit),
			StatusPill(r.Status) + " " + progress.FormatPercent(r.Percentage),
		})
	}
	return RenderTable([]string{"ID", "METRIC", "TYPE", "CURRENT", "TARGET", "STATUS"}, rows)
}

// FormatInitiativeList renders initiatives with their due dates.
func FormatInitiativeList(initiatives []*domain.Initiative) string {
	if len(initiatives) == 0 {
		return Dim("No initiatives found.") + "\n"
	}
	rows := make([][]string, 0, len(initiatives))
	for _, in := range initiatives {
		rows = append(rows, []string{
			TruncID(in.ID),
			in.Title,
			InitiativeStatusPill(in.Status),
			dateOrDash(in.DueDate),
		})
	}
	return RenderTable([]string{"ID", "INITIATIVE", "STATUS", "DUE"}, rows)
}

// FormatTaskList renders tasks as a checklist.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks found.") + "\n"
	}
	var b strings.Builder
	done := 0
	for _, t := range tasks {
		box := Dim("[ ]")
		title := t.Title
		if t.Done {
			box = StyleGreen.Render("[x]")
			title = Dim(title)
			done++
		}
		fmt.Fprintf(&b, "  %s %s %s\n", box, TruncID(t.ID), title)
	}
	fmt.Fprintf(&b, "\n  %s\n", Dim(fmt.Sprintf("%d of %d done", done, len(tasks))))
	return b.String()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
