package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
	"golang.org/x/sync/errgroup"
)

// dashboardFanOut bounds concurrent objective loads.
const dashboardFanOut = 4

type dashboardService struct {
	objectives  repository.ObjectiveRepo
	keyResults  repository.KeyResultRepo
	initiatives repository.InitiativeRepo
	tasks       repository.TaskRepo
	metrics     repository.SuccessMetricRepo
	calc        progress.Calculator
	observer    UseCaseObserver
}

func NewDashboardService(
	objectives repository.ObjectiveRepo,
	keyResults repository.KeyResultRepo,
	initiatives repository.InitiativeRepo,
	tasks repository.TaskRepo,
	metrics repository.SuccessMetricRepo,
	calc progress.Calculator,
	observers ...UseCaseObserver,
) DashboardService {
	return &dashboardService{
		objectives:  objectives,
		keyResults:  keyResults,
		initiatives: initiatives,
		tasks:       tasks,
		metrics:     metrics,
		calc:        calc,
		observer:    NewMultiUseCaseObserver(observers...),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, req contract.DashboardRequest) (resp *contract.DashboardResponse, err error) {
	fields := map[string]any{"scope": len(req.ObjectiveScope), "period": req.Period}
	defer observe(ctx, s.observer, "get-dashboard", time.Now(), fields, &err)

	now := nowOr(req.Now)

	all, err := s.objectives.List(ctx, req.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("listing objectives: %w", err)
	}
	children := make(map[string][]*domain.Objective)
	known := make(map[string]bool, len(all))
	for _, o := range all {
		known[o.ID] = true
	}
	for _, o := range all {
		if o.ParentID != nil && known[*o.ParentID] {
			children[*o.ParentID] = append(children[*o.ParentID], o)
		}
	}

	roots, err := s.roots(ctx, req, all, known)
	if err != nil {
		return nil, err
	}

	trees := make([]app.ObjectiveView, len(roots))
	warnings := make([][]string, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardFanOut)
	for i, root := range roots {
		g.Go(func() error {
			b := &treeBuilder{svc: s, children: children, now: now}
			view, err := b.objective(gctx, root, map[string]bool{})
			if err != nil {
				return err
			}
			trees[i] = view
			warnings[i] = b.warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp = &contract.DashboardResponse{Objectives: trees}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w...)
	}
	resp.Summary = summarize(resp, now)

	fields["objectives"] = resp.Summary.CountsTotal
	for status, n := range resp.Summary.CountsByStatus {
		fields["count_"+string(status)] = n
	}
	return resp, nil
}

// roots returns the scoped objectives, or every top-level objective in the
// requested period.
func (s *dashboardService) roots(ctx context.Context, req contract.DashboardRequest, all []*domain.Objective, known map[string]bool) ([]*domain.Objective, error) {
	if len(req.ObjectiveScope) > 0 {
		out := make([]*domain.Objective, 0, len(req.ObjectiveScope))
		seen := map[string]bool{}
		for _, ref := range req.ObjectiveScope {
			o, err := resolveObjective(ctx, s.objectives, ref)
			if err != nil {
				return nil, fmt.Errorf("objective %q: %w", ref, err)
			}
			if !seen[o.ID] {
				seen[o.ID] = true
				out = append(out, o)
			}
		}
		return dropScopedDescendants(out, all), nil
	}

	var out []*domain.Objective
	for _, o := range all {
		if o.ParentID != nil && known[*o.ParentID] {
			continue
		}
		if req.Period != "" && o.Period != req.Period {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// treeBuilder loads one objective subtree. Each builder is used by a single
// goroutine.
type treeBuilder struct {
	svc      *dashboardService
	children map[string][]*domain.Objective
	now      time.Time
	warnings []string
}

func (b *treeBuilder) warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *treeBuilder) objective(ctx context.Context, o *domain.Objective, visiting map[string]bool) (app.ObjectiveView, error) {
	if visiting[o.ID] {
		return app.ObjectiveView{}, fmt.Errorf("objective %s: parent cycle", o.DisplayID())
	}
	visiting[o.ID] = true
	defer delete(visiting, o.ID)

	view := app.ObjectiveView{
		ID:       o.ID,
		ShortID:  o.ShortID,
		ParentID: o.ParentID,
		Title:    o.Title,
		Owner:    o.Owner,
		Period:   o.Period,
		Status:   o.Status,
	}
	if o.TargetDate != nil {
		d := o.TargetDate.Format("2006-01-02")
		view.TargetDate = &d
	}

	krs, err := b.svc.keyResults.ListByObjective(ctx, o.ID)
	if err != nil {
		return view, fmt.Errorf("loading key results for %s: %w", o.DisplayID(), err)
	}
	if len(krs) == 0 && !o.IsArchived() {
		b.warn("objective %s has no key results", o.DisplayID())
	}
	view.KeyResults = make([]app.KeyResultView, 0, len(krs))
	for _, kr := range krs {
		krView, err := b.keyResult(ctx, o, kr)
		if err != nil {
			return view, err
		}
		view.KeyResults = append(view.KeyResults, krView)
	}

	for _, child := range b.children[o.ID] {
		childView, err := b.objective(ctx, child, visiting)
		if err != nil {
			return view, err
		}
		view.Children = append(view.Children, childView)
	}

	res := objectiveProgress(b.svc.calc, view.KeyResults, view.Children)
	view.Progress = app.NewProgressView(res)

	if o.IsArchived() || res.Status == domain.StatusCompleted {
		return view, nil
	}
	if o.TargetDate != nil && o.TargetDate.Before(b.now) {
		b.warn("%s is past its target date %s at %s", o.DisplayID(), *view.TargetDate, progress.FormatPercent(res.Percentage))
	} else if pace, ok := progress.ComputePace(o.StartDate, o.TargetDate, res.Percentage, b.now); ok && pace.Behind() {
		b.warn("%s is behind pace: %s done with %s of its timeline elapsed, %d days left",
			o.DisplayID(), progress.FormatPercent(pace.ProgressPct), progress.FormatPercent(pace.ElapsedPct), pace.DaysLeft)
	}
	return view, nil
}

func (b *treeBuilder) keyResult(ctx context.Context, o *domain.Objective, kr *domain.KeyResult) (app.KeyResultView, error) {
	if !kr.Type.Valid() {
		b.warn("%s key result %q has unknown type %q; using target ratio", o.DisplayID(), kr.Title, kr.Type)
	}
	view := app.KeyResultView{
		ID:       kr.ID,
		Title:    kr.Title,
		Measure:  app.NewMeasureView(kr.Measure),
		Progress: app.NewProgressView(b.svc.calc.Measure(kr.Measure)),
	}

	inits, err := b.svc.initiatives.ListByKeyResult(ctx, kr.ID)
	if err != nil {
		return view, fmt.Errorf("loading initiatives for %q: %w", kr.Title, err)
	}
	view.Initiatives = make([]app.InitiativeView, 0, len(inits))
	for _, in := range inits {
		iv, err := b.initiative(ctx, in)
		if err != nil {
			return view, err
		}
		view.Initiatives = append(view.Initiatives, iv)
	}
	return view, nil
}

func (b *treeBuilder) initiative(ctx context.Context, in *domain.Initiative) (app.InitiativeView, error) {
	view := app.InitiativeView{ID: in.ID, Title: in.Title, Status: in.Status}
	if in.DueDate != nil {
		d := in.DueDate.Format("2006-01-02")
		view.DueDate = &d
	}

	tasks, err := b.svc.tasks.ListByInitiative(ctx, in.ID)
	if err != nil {
		return view, fmt.Errorf("loading tasks for %q: %w", in.Title, err)
	}
	view.TasksTotal = len(tasks)
	view.Tasks = make([]app.TaskView, 0, len(tasks))
	for _, t := range tasks {
		if t.Done {
			view.TasksDone++
		}
		view.Tasks = append(view.Tasks, app.TaskView{ID: t.ID, Title: t.Title, Done: t.Done})
	}

	metrics, err := b.svc.metrics.ListByInitiative(ctx, in.ID)
	if err != nil {
		return view, fmt.Errorf("loading success metrics for %q: %w", in.Title, err)
	}
	view.Metrics = make([]app.MetricView, 0, len(metrics))
	for _, m := range metrics {
		view.Metrics = append(view.Metrics, app.MetricView{
			ID:       m.ID,
			Title:    m.Title,
			Measure:  app.NewMeasureView(m.Measure),
			Progress: app.NewProgressView(b.svc.calc.Measure(m.Measure)),
		})
	}

	view.Progress = app.NewProgressView(initiativeProgress(b.svc.calc, in.Status, view.Metrics, view.TasksDone, view.TasksTotal))
	return view, nil
}

func summarize(resp *contract.DashboardResponse, now time.Time) contract.DashboardSummary {
	sum := contract.DashboardSummary{
		GeneratedAt:    now,
		CountsByStatus: make(map[domain.ProgressStatus]int, len(domain.ProgressStatuses)),
	}
	for _, st := range domain.ProgressStatuses {
		sum.CountsByStatus[st] = 0
	}
	var total float64
	resp.Walk(func(o *app.ObjectiveView, _ int) {
		sum.CountsTotal++
		sum.CountsByStatus[o.Progress.Status]++
		total += o.Progress.Percentage
	})
	if sum.CountsTotal > 0 {
		sum.AveragePct = total / float64(sum.CountsTotal)
	}
	return sum
}

// dropScopedDescendants removes objectives whose ancestor is also in scoped,
// since the ancestor's subtree already contains them.
func dropScopedDescendants(scoped, all []*domain.Objective) []*domain.Objective {
	parents := make(map[string]string, len(all))
	for _, o := range all {
		if o.ParentID != nil {
			parents[o.ID] = *o.ParentID
		}
	}
	inScope := make(map[string]bool, len(scoped))
	for _, o := range scoped {
		inScope[o.ID] = true
	}
	out := scoped[:0:0]
	for _, o := range scoped {
		covered := false
		visited := map[string]bool{o.ID: true}
		for id, ok := parents[o.ID]; ok && !visited[id]; id, ok = parents[id] {
			if inScope[id] {
				covered = true
				break
			}
			visited[id] = true
		}
		if !covered {
			out = append(out, o)
		}
	}
	return out
}
