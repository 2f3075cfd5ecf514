package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func ptr(v float64) *float64 { return &v }

func sampleDashboard() *app.DashboardResponse {
	return &app.DashboardResponse{
		Summary: app.DashboardSummary{
			CountsTotal:    2,
			CountsByStatus: map[domain.ProgressStatus]int{domain.StatusOnTrack: 1, domain.StatusBehind: 1},
			AveragePct:     57.5,
		},
		Objectives: []app.ObjectiveView{{
			ID: "o1", ShortID: "GRO01", Title: "Grow revenue", Period: "2026-Q4",
			Progress: app.ProgressView{Percentage: 85, Status: domain.StatusOnTrack, HasUpdates: true},
			KeyResults: []app.KeyResultView{{
				ID: "k1", Title: "Reach $10k MRR",
				Measure:  app.MeasureView{Type: domain.MetricIncreaseTo, Unit: domain.UnitCurrency, CurrentValue: ptr(8500), TargetValue: 10000},
				Progress: app.ProgressView{Percentage: 85, Status: domain.StatusOnTrack, HasUpdates: true},
				Initiatives: []app.InitiativeView{{
					ID: "i1", Title: "Launch pricing page", Status: domain.InitiativeInProgress,
					TasksDone: 1, TasksTotal: 2,
					Progress: app.ProgressView{Percentage: 50, Status: domain.StatusBehind, HasUpdates: true},
					Metrics: []app.MetricView{{
						ID: "m1", Title: "Signups",
						Progress: app.ProgressView{Percentage: 30, Status: domain.StatusBehind, HasUpdates: true},
					}},
				}},
			}},
			Children: []app.ObjectiveView{{
				ID: "o2", ShortID: "SAL01", Title: "Close deals",
				Progress: app.ProgressView{Percentage: 30, Status: domain.StatusBehind, HasUpdates: true},
			}},
		}},
		Warnings: []string{"objective SAL01 has no key results"},
	}
}

func TestStatusPill(t *testing.T) {
	assert.Equal(t, "▲ At risk", stripANSI(StatusPill(domain.StatusAtRisk)))
	assert.Equal(t, "○ Not started", stripANSI(StatusPill(domain.StatusNotStarted)))
	assert.Equal(t, "? Mystery", stripANSI(StatusPill("mystery")))
}

func TestRenderProgress(t *testing.T) {
	out := stripANSI(RenderProgress(50, domain.StatusBehind, 10))
	assert.Equal(t, "█████░░░░░  50.0%", out)

	assert.Equal(t, strings.Repeat("█", 10), stripANSI(RenderBar(250, domain.StatusCompleted, 10)), "clamped")
	assert.Equal(t, strings.Repeat("░", 10), stripANSI(RenderBar(-5, domain.StatusNotStarted, 10)))
}

func TestFormatDashboard_Tree(t *testing.T) {
	out := stripANSI(FormatDashboard(sampleDashboard(), DashboardOptions{ShowInitiatives: true, ShowMetrics: true}))

	assert.Contains(t, out, "OKR DASHBOARD")
	assert.Contains(t, out, "GRO01    Grow revenue (2026-Q4)")
	assert.Contains(t, out, "KR Reach $10k MRR")
	assert.Contains(t, out, "$8,500 / $10,000")
	assert.Contains(t, out, "● In progress Launch pricing page  50.0% 1/2 tasks")
	assert.Contains(t, out, "◦ Signups  30.0%")
	assert.Contains(t, out, "  SAL01    Close deals", "child objectives are indented")
	assert.Contains(t, out, "Summary: 2 objectives  1 on track · 1 behind  avg 57.5%")
	assert.Contains(t, out, "! objective SAL01 has no key results")
}

func TestFormatDashboard_CollapsedHidesInitiatives(t *testing.T) {
	out := stripANSI(FormatDashboard(sampleDashboard(), DashboardOptions{}))
	assert.Contains(t, out, "Reach $10k MRR")
	assert.NotContains(t, out, "Launch pricing page")
}

func TestFormatDashboard_Empty(t *testing.T) {
	out := stripANSI(FormatDashboard(&app.DashboardResponse{}, DashboardOptions{}))
	assert.Contains(t, out, "No objectives yet")
}

func TestFormatCheckInResult_ShowsCrossing(t *testing.T) {
	res := &app.CheckInResult{
		CheckIn:  &domain.CheckIn{PreviousValue: ptr(60), Value: 85},
		Before:   app.ProgressView{Percentage: 60, Status: domain.StatusAtRisk},
		Progress: app.ProgressView{Percentage: 85, Status: domain.StatusOnTrack},
	}
	out := stripANSI(FormatCheckInResult("Reach 100 customers", domain.UnitNumber, res))
	assert.Contains(t, out, "✔ Checked in Reach 100 customers")
	assert.Contains(t, out, "60 → 85")
	assert.Contains(t, out, "85.0%")
	assert.Contains(t, out, "Status changed: At risk → On track")

	res.Before.Status = domain.StatusOnTrack
	assert.NotContains(t, stripANSI(FormatCheckInResult("x", domain.UnitNumber, res)), "Status changed")
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	checkIns := []*domain.CheckIn{
		{Value: 85, PreviousValue: ptr(60), Source: "cli", Note: "big week", CreatedAt: now.Add(-2 * time.Hour)},
		{Value: 60, Source: "api", CreatedAt: now.Add(-72 * time.Hour)},
	}
	out := stripANSI(FormatHistory(checkIns, domain.UnitPercentage, now))
	assert.Contains(t, out, "85%")
	assert.Contains(t, out, "big week")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "api")

	assert.Contains(t, stripANSI(FormatHistory(nil, domain.UnitNumber, now)), "No check-ins yet")
}

func TestFormatKeyResultList_UsesCalculator(t *testing.T) {
	now := time.Now()
	krs := []*domain.KeyResult{{
		ID: "0123456789abcdef", Title: "Cut churn",
		Measure: domain.Measure{Type: domain.MetricDecreaseTo, BaseValue: ptr(10), CurrentValue: ptr(4), TargetValue: 2, LastCheckInAt: &now},
	}}
	out := stripANSI(FormatKeyResultList(krs, progress.Default()))
	assert.Contains(t, out, "KEY RESULT")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "At risk 75.0%")
}

func TestFormatPreview_UnknownType(t *testing.T) {
	out := stripANSI(FormatPreview(&app.PreviewResponse{
		Percentage: 40, Status: domain.StatusBehind, Current: "20", Target: "50",
	}))
	assert.Contains(t, out, "PREVIEW")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "unknown metric type")
}

func TestFormatSuggestions(t *testing.T) {
	out := stripANSI(FormatSuggestions(&app.SuggestionResponse{
		Title: "Reach 100 customers", Percentage: 60, Status: domain.StatusAtRisk,
		Suggestions: []app.Suggestion{{Title: "Call two leads daily", Rationale: "Pipeline is thin"}},
		Source:      app.SuggestionFromRules,
		Cached:      true,
	}))
	assert.Contains(t, out, "1. Call two leads daily")
	assert.Contains(t, out, "Pipeline is thin")
	assert.Contains(t, out, "built-in suggestions, cached")
}

func TestFormatTaskList(t *testing.T) {
	out := stripANSI(FormatTaskList([]*domain.Task{
		{ID: "t1", Title: "Draft copy", Done: true},
		{ID: "t2", Title: "Ship"},
	}))
	assert.Contains(t, out, "[x] t1 Draft copy")
	assert.Contains(t, out, "[ ] t2 Ship")
	assert.Contains(t, out, "1 of 2 done")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", RelativeDateFrom(now, now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "In 5d", RelativeDateFrom(now.AddDate(0, 0, 5), now))
	assert.Equal(t, "3w ago", RelativeDateFrom(now.AddDate(0, 0, -21), now))
	assert.Equal(t, "In 3mo", RelativeDateFrom(now.AddDate(0, 0, 95), now))
}

func TestRenderTable_HeadersAndRows(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"one", "two"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "A")
	assert.Contains(t, out, "one")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var buf safeBuffer
	stop := StartSpinner(&buf, "thinking")
	time.Sleep(100 * time.Millisecond)
	stop()
	stop()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}
