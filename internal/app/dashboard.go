package app

import (
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

type DashboardRequest struct {
	Now             *time.Time
	ObjectiveScope  []string // objective IDs or short IDs; empty means all roots
	IncludeArchived bool
	Period          string
}

func NewDashboardRequest() DashboardRequest {
	return DashboardRequest{}
}

// ProgressView is the serialisable form of a progress.Result.
type ProgressView struct {
	Percentage float64               `json:"percentage"`
	Status     domain.ProgressStatus `json:"status"`
	HasUpdates bool                  `json:"has_updates"`
}

func NewProgressView(r progress.Result) ProgressView {
	return ProgressView{Percentage: r.Percentage, Status: r.Status, HasUpdates: r.HasUpdates}
}

// Result converts the view back for rollups.
func (v ProgressView) Result() progress.Result {
	return progress.Result{Percentage: v.Percentage, Status: v.Status, HasUpdates: v.HasUpdates}
}

// MeasureView carries the raw values behind a percentage.
type MeasureView struct {
	Type          domain.MetricType `json:"type"`
	Unit          domain.Unit       `json:"unit"`
	BaseValue     *float64          `json:"base_value"`
	CurrentValue  *float64          `json:"current_value"`
	TargetValue   float64           `json:"target_value"`
	LastCheckInAt *time.Time        `json:"last_check_in_at,omitempty"`
}

func NewMeasureView(m domain.Measure) MeasureView {
	return MeasureView{
		Type:          m.Type,
		Unit:          m.Unit,
		BaseValue:     m.BaseValue,
		CurrentValue:  m.CurrentValue,
		TargetValue:   m.TargetValue,
		LastCheckInAt: m.LastCheckInAt,
	}
}

type MetricView struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Measure  MeasureView  `json:"measure"`
	Progress ProgressView `json:"progress"`
}

type TaskView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type InitiativeView struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	Status     domain.InitiativeStatus `json:"status"`
	DueDate    *string                 `json:"due_date,omitempty"`
	TasksDone  int                     `json:"tasks_done"`
	TasksTotal int                     `json:"tasks_total"`
	Tasks      []TaskView              `json:"tasks"`
	Metrics    []MetricView            `json:"metrics"`
	Progress   ProgressView            `json:"progress"`
}

type KeyResultView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Measure     MeasureView      `json:"measure"`
	Initiatives []InitiativeView `json:"initiatives"`
	Progress    ProgressView     `json:"progress"`
}

type ObjectiveView struct {
	ID         string                 `json:"id"`
	ShortID    string                 `json:"short_id"`
	ParentID   *string                `json:"parent_id,omitempty"`
	Title      string                 `json:"title"`
	Owner      string                 `json:"owner,omitempty"`
	Period     string                 `json:"period,omitempty"`
	Status     domain.ObjectiveStatus `json:"status"`
	TargetDate *string                `json:"target_date,omitempty"`
	KeyResults []KeyResultView        `json:"key_results"`
	Children   []ObjectiveView        `json:"children,omitempty"`
	Progress   ProgressView           `json:"progress"`
}

// DashboardSummary counts every objective in the returned trees, nested
// children included.
type DashboardSummary struct {
	GeneratedAt    time.Time                     `json:"generated_at"`
	CountsTotal    int                           `json:"counts_total"`
	CountsByStatus map[domain.ProgressStatus]int `json:"counts_by_status"`
	AveragePct     float64                       `json:"average_pct"`
}

type DashboardResponse struct {
	Summary    DashboardSummary `json:"summary"`
	Objectives []ObjectiveView  `json:"objectives"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// Walk visits every objective in depth-first order.
func (r *DashboardResponse) Walk(fn func(o *ObjectiveView, depth int)) {
	var walk func(list []ObjectiveView, depth int)
	walk = func(list []ObjectiveView, depth int) {
		for i := range list {
			fn(&list[i], depth)
			walk(list[i].Children, depth+1)
		}
	}
	walk(r.Objectives, 0)
}
