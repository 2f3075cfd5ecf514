package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/alexanderramin/okra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	growth, emea, hiring *domain.Objective
	customers, launch    *domain.KeyResult
}

func seedDashboard(t *testing.T, env *testEnv) dashboardFixture {
	t.Helper()
	ctx := context.Background()

	growth := env.mustObjective(t, "Grow revenue", testutil.WithShortID("GRO01"), testutil.WithPeriod("2026-Q4"))
	emea := env.mustObjective(t, "Expand EMEA", testutil.WithShortID("EME01"), testutil.WithParent(growth.ID), testutil.WithPeriod("2026-Q4"))
	hiring := env.mustObjective(t, "Hire team", testutil.WithShortID("HIR01"), testutil.WithPeriod("2026-Q3"))
	archived := env.mustObjective(t, "Old goal", testutil.WithShortID("OLD01"))
	require.NoError(t, env.objectives.Archive(ctx, archived.ID))

	customers := env.mustKeyResult(t, growth.ID, "Reach 100 customers", testutil.WithCurrent(50))
	launch := env.mustKeyResult(t, growth.ID, "Launch pricing page",
		testutil.WithMetricType(domain.MetricAchieveOrNot), testutil.WithTarget(1), testutil.WithCurrent(1))

	byTasks := env.mustInitiative(t, customers.ID, "Outbound campaign")
	require.NoError(t, env.tasks.Create(ctx, testutil.NewTestTask(byTasks.ID, "List prospects", true)))
	require.NoError(t, env.tasks.Create(ctx, testutil.NewTestTask(byTasks.ID, "Send emails", false)))

	env.mustInitiative(t, customers.ID, "Partner deals", testutil.WithInitiativeStatus(domain.InitiativeDone))

	byMetric := env.mustInitiative(t, customers.ID, "Faster onboarding")
	m := testutil.NewTestSuccessMetric(byMetric.ID, "Onboarding minutes",
		testutil.WithMetricType(domain.MetricDecreaseTo), testutil.WithBase(100), testutil.WithTarget(0), testutil.WithCurrent(10))
	require.NoError(t, env.metrics.Create(ctx, m))

	return dashboardFixture{growth: growth, emea: emea, hiring: hiring, customers: customers, launch: launch}
}

func TestDashboardService_Tree(t *testing.T) {
	env := setupEnv(t)
	fx := seedDashboard(t, env)

	resp, err := env.dashboardSvc().GetDashboard(context.Background(), app.NewDashboardRequest())
	require.NoError(t, err)

	require.Len(t, resp.Objectives, 2, "roots only; archived objectives hidden")
	growth := resp.Objectives[0]
	assert.Equal(t, fx.growth.ID, growth.ID)
	assert.Equal(t, 75.0, growth.Progress.Percentage)
	assert.Equal(t, domain.StatusAtRisk, growth.Progress.Status)

	require.Len(t, growth.KeyResults, 2)
	customers := growth.KeyResults[0]
	assert.Equal(t, 50.0, customers.Progress.Percentage)
	assert.Equal(t, domain.StatusBehind, customers.Progress.Status)
	assert.Equal(t, domain.StatusCompleted, growth.KeyResults[1].Progress.Status)

	require.Len(t, customers.Initiatives, 3)
	byTasks := customers.Initiatives[0]
	assert.Equal(t, 1, byTasks.TasksDone)
	assert.Equal(t, 2, byTasks.TasksTotal)
	assert.Equal(t, 50.0, byTasks.Progress.Percentage)

	assert.Equal(t, 100.0, customers.Initiatives[1].Progress.Percentage, "done initiative counts as complete")
	assert.Equal(t, domain.StatusCompleted, customers.Initiatives[1].Progress.Status)

	byMetric := customers.Initiatives[2]
	require.Len(t, byMetric.Metrics, 1)
	assert.Equal(t, 90.0, byMetric.Progress.Percentage)
	assert.Equal(t, domain.StatusOnTrack, byMetric.Progress.Status)

	require.Len(t, growth.Children, 1)
	emea := growth.Children[0]
	assert.Equal(t, fx.emea.ID, emea.ID)
	assert.Equal(t, 0.0, emea.Progress.Percentage)
	assert.Equal(t, domain.StatusNotStarted, emea.Progress.Status)

	assert.Equal(t, 3, resp.Summary.CountsTotal, "nested children are counted")
	assert.Equal(t, 1, resp.Summary.CountsByStatus[domain.StatusAtRisk])
	assert.Equal(t, 2, resp.Summary.CountsByStatus[domain.StatusNotStarted])
	assert.Equal(t, 0, resp.Summary.CountsByStatus[domain.StatusCompleted])
	assert.Equal(t, 25.0, resp.Summary.AveragePct)
}

func TestDashboardService_SameInputSameStatusEverywhere(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	seedDashboard(t, env)

	resp, err := env.dashboardSvc().GetDashboard(ctx, app.NewDashboardRequest())
	require.NoError(t, err)

	preview := NewPreviewService(env.calc)
	kr := resp.Objectives[0].KeyResults[0]
	pv, err := preview.Preview(ctx, app.PreviewRequest{
		Type:       string(kr.Measure.Type),
		Base:       kr.Measure.BaseValue,
		Current:    kr.Measure.CurrentValue,
		Target:     kr.Measure.TargetValue,
		HasUpdates: kr.Progress.HasUpdates,
	})
	require.NoError(t, err)
	assert.Equal(t, kr.Progress.Percentage, pv.Percentage)
	assert.Equal(t, kr.Progress.Status, pv.Status)
}

func TestDashboardService_PeriodAndScope(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	fx := seedDashboard(t, env)
	svc := env.dashboardSvc()

	req := app.NewDashboardRequest()
	req.Period = "2026-Q3"
	resp, err := svc.GetDashboard(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Objectives, 1)
	assert.Equal(t, fx.hiring.ID, resp.Objectives[0].ID)

	req = app.NewDashboardRequest()
	req.ObjectiveScope = []string{"eme01", "EME01"}
	resp, err = svc.GetDashboard(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Objectives, 1, "duplicate scope entries collapse")
	assert.Equal(t, fx.emea.ID, resp.Objectives[0].ID)
	assert.Equal(t, 1, resp.Summary.CountsTotal)

	req.ObjectiveScope = []string{"NOPE01"}
	_, err = svc.GetDashboard(ctx, req)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	req = app.NewDashboardRequest()
	req.IncludeArchived = true
	resp, err = svc.GetDashboard(ctx, req)
	require.NoError(t, err)
	assert.Len(t, resp.Objectives, 3)
}

func TestDashboardService_Warnings(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	past := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	o := env.mustObjective(t, "Late goal", testutil.WithShortID("LAT01"), testutil.WithTargetDate(past))
	env.mustKeyResult(t, o.ID, "Legacy metric", testutil.WithMetricType("grow_by"), testutil.WithTarget(50), testutil.WithCurrent(20))

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := app.NewDashboardRequest()
	req.Now = &now
	resp, err := env.dashboardSvc().GetDashboard(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Objectives, 1)
	kr := resp.Objectives[0].KeyResults[0]
	assert.Equal(t, 40.0, kr.Progress.Percentage, "unknown types fall back to current/target")

	joined := strings.Join(resp.Warnings, "\n")
	assert.Contains(t, joined, `unknown type "grow_by"`)
	assert.NotContains(t, joined, "LAT01 has no key results")
	assert.Contains(t, joined, "LAT01 is past its target date 2026-01-31")
	assert.True(t, resp.Summary.GeneratedAt.Equal(now))
}

func TestDashboardService_WarnsOnObjectiveWithoutKeyResults(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.mustObjective(t, "Empty goal", testutil.WithShortID("EMP01"))
	shelved := env.mustObjective(t, "Shelved goal", testutil.WithShortID("SHE01"))
	require.NoError(t, env.objectives.Archive(ctx, shelved.ID))

	req := app.NewDashboardRequest()
	req.IncludeArchived = true
	resp, err := env.dashboardSvc().GetDashboard(ctx, req)
	require.NoError(t, err)

	assert.Contains(t, resp.Warnings, "objective EMP01 has no key results")
	assert.NotContains(t, strings.Join(resp.Warnings, "\n"), "SHE01", "archived objectives are not nagged")
}

func TestDashboardService_ScopedParentAndChildCountedOnce(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	fx := seedDashboard(t, env)

	req := app.NewDashboardRequest()
	req.ObjectiveScope = []string{"EME01", "GRO01"}
	resp, err := env.dashboardSvc().GetDashboard(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Objectives, 1, "child is nested under its scoped parent")
	assert.Equal(t, fx.growth.ID, resp.Objectives[0].ID)
	require.Len(t, resp.Objectives[0].Children, 1)
	assert.Equal(t, fx.emea.ID, resp.Objectives[0].Children[0].ID)
	assert.Equal(t, 2, resp.Summary.CountsTotal)
}

func TestDashboardService_BehindPaceWarning(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)
	slow := env.mustObjective(t, "Slow goal", testutil.WithShortID("SLO01"),
		testutil.WithStartDate(start), testutil.WithTargetDate(target))
	env.mustKeyResult(t, slow.ID, "Signups", testutil.WithTarget(100), testutil.WithCurrent(20))

	steady := env.mustObjective(t, "Steady goal", testutil.WithShortID("STE01"),
		testutil.WithStartDate(start), testutil.WithTargetDate(target))
	env.mustKeyResult(t, steady.ID, "Signups", testutil.WithTarget(100), testutil.WithCurrent(45))

	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	req := app.NewDashboardRequest()
	req.Now = &now
	resp, err := env.dashboardSvc().GetDashboard(ctx, req)
	require.NoError(t, err)

	joined := strings.Join(resp.Warnings, "\n")
	assert.Contains(t, joined, "SLO01 is behind pace: 20.0% done with 50.0% of its timeline elapsed, 50 days left")
	assert.NotContains(t, joined, "STE01")
}

func TestDashboardService_EmitsStatusCounts(t *testing.T) {
	env := setupEnv(t)
	seedDashboard(t, env)
	obs := &recordingObserver{}

	_, err := env.dashboardSvc(obs).GetDashboard(context.Background(), app.NewDashboardRequest())
	require.NoError(t, err)

	ev := obs.last(t)
	assert.Equal(t, "get-dashboard", ev.Name)
	assert.Equal(t, 3, ev.Fields["objectives"])
	assert.Equal(t, 2, ev.Fields["count_not_started"])
	assert.Equal(t, 1, ev.Fields["count_at_risk"])
}

func TestDashboardService_Empty(t *testing.T) {
	env := setupEnv(t)
	resp, err := env.dashboardSvc().GetDashboard(context.Background(), app.NewDashboardRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Objectives)
	assert.Zero(t, resp.Summary.CountsTotal)
	assert.Zero(t, resp.Summary.AveragePct)
}
