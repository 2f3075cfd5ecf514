package contract

import "github.com/alexanderramin/okra/internal/app"

type DashboardRequest = app.DashboardRequest

func NewDashboardRequest() DashboardRequest {
	return app.NewDashboardRequest()
}

type ProgressView = app.ProgressView

type MeasureView = app.MeasureView

type MetricView = app.MetricView

type TaskView = app.TaskView

type InitiativeView = app.InitiativeView

type KeyResultView = app.KeyResultView

type ObjectiveView = app.ObjectiveView

type DashboardSummary = app.DashboardSummary

type DashboardResponse = app.DashboardResponse
