package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/alexanderramin/okra/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sql.DB
	uow         db.UnitOfWork
	objectives  repository.ObjectiveRepo
	keyResults  repository.KeyResultRepo
	initiatives repository.InitiativeRepo
	tasks       repository.TaskRepo
	metrics     repository.SuccessMetricRepo
	checkIns    repository.CheckInRepo
	calc        progress.Calculator
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		objectives:  repository.NewSQLiteObjectiveRepo(database),
		keyResults:  repository.NewSQLiteKeyResultRepo(database),
		initiatives: repository.NewSQLiteInitiativeRepo(database),
		tasks:       repository.NewSQLiteTaskRepo(database),
		metrics:     repository.NewSQLiteSuccessMetricRepo(database),
		checkIns:    repository.NewSQLiteCheckInRepo(database),
		calc:        progress.Default(),
	}
}

func (e *testEnv) objectiveSvc(obs ...UseCaseObserver) ObjectiveService {
	return NewObjectiveService(e.objectives, e.uow, obs...)
}

func (e *testEnv) keyResultSvc(uow db.UnitOfWork, obs ...UseCaseObserver) KeyResultService {
	if uow == nil {
		uow = e.uow
	}
	return NewKeyResultService(e.keyResults, e.objectives, e.checkIns, uow, e.calc, obs...)
}

func (e *testEnv) initiativeSvc() InitiativeService {
	return NewInitiativeService(e.initiatives, e.keyResults, e.tasks, e.uow)
}

func (e *testEnv) metricSvc(uow db.UnitOfWork) SuccessMetricService {
	if uow == nil {
		uow = e.uow
	}
	return NewSuccessMetricService(e.metrics, e.initiatives, e.checkIns, uow, e.calc)
}

func (e *testEnv) dashboardSvc(obs ...UseCaseObserver) DashboardService {
	return NewDashboardService(e.objectives, e.keyResults, e.initiatives, e.tasks, e.metrics, e.calc, obs...)
}

func (e *testEnv) mustObjective(t *testing.T, title string, opts ...testutil.ObjectiveOption) *domain.Objective {
	t.Helper()
	o := testutil.NewTestObjective(title, opts...)
	require.NoError(t, e.objectives.Create(context.Background(), o))
	return o
}

func (e *testEnv) mustKeyResult(t *testing.T, objectiveID, title string, opts ...testutil.MeasureOption) *domain.KeyResult {
	t.Helper()
	kr := testutil.NewTestKeyResult(objectiveID, title, opts...)
	require.NoError(t, e.keyResults.Create(context.Background(), kr))
	return kr
}

func (e *testEnv) mustInitiative(t *testing.T, keyResultID, title string, opts ...testutil.InitiativeOption) *domain.Initiative {
	t.Helper()
	in := testutil.NewTestInitiative(keyResultID, title, opts...)
	require.NoError(t, e.initiatives.Create(context.Background(), in))
	return in
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}
