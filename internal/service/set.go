package service

import (
	"database/sql"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
)

// Set is every service wired over one database, as the entrypoints use them.
type Set struct {
	Objectives  ObjectiveService
	KeyResults  KeyResultService
	Initiatives InitiativeService
	Metrics     SuccessMetricService
	Dashboard   DashboardService
	Preview     PreviewService
	Import      ImportService
	Export      ExportService
	Calc        progress.Calculator
}

// NewSet wires SQLite repositories and services over database. Every
// service reports to the same observers.
func NewSet(database *sql.DB, calc progress.Calculator, observers ...UseCaseObserver) *Set {
	objectives := repository.NewSQLiteObjectiveRepo(database)
	keyResults := repository.NewSQLiteKeyResultRepo(database)
	initiatives := repository.NewSQLiteInitiativeRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	metrics := repository.NewSQLiteSuccessMetricRepo(database)
	checkIns := repository.NewSQLiteCheckInRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	dashboard := NewDashboardService(objectives, keyResults, initiatives, tasks, metrics, calc, observers...)
	return &Set{
		Objectives:  NewObjectiveService(objectives, uow, observers...),
		KeyResults:  NewKeyResultService(keyResults, objectives, checkIns, uow, calc, observers...),
		Initiatives: NewInitiativeService(initiatives, keyResults, tasks, uow, observers...),
		Metrics:     NewSuccessMetricService(metrics, initiatives, checkIns, uow, calc, observers...),
		Dashboard:   dashboard,
		Preview:     NewPreviewService(calc, observers...),
		Import:      NewImportService(objectives, uow, observers...),
		Export:      NewExportService(dashboard, observers...),
		Calc:        calc,
	}
}
