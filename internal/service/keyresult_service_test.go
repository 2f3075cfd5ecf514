package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/alexanderramin/okra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyResultService_Create_NormalisesType(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Grow revenue")
	svc := env.keyResultSvc(nil)

	kr := &domain.KeyResult{
		ObjectiveID: o.ID,
		Title:       "Reach 100 customers",
		Measure:     domain.Measure{Type: " Increase_To ", TargetValue: 100},
	}
	require.NoError(t, svc.Create(ctx, kr))
	assert.Equal(t, domain.MetricIncreaseTo, kr.Type)
	assert.Equal(t, domain.UnitNumber, kr.Unit)
	assert.Equal(t, 1, kr.OrderIndex)

	second := &domain.KeyResult{ObjectiveID: o.ID, Title: "Second", Measure: domain.Measure{Type: domain.MetricAchieveOrNot, TargetValue: 1}}
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, 2, second.OrderIndex)
}

func TestKeyResultService_Create_Rejects(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Validation")
	svc := env.keyResultSvc(nil)

	err := svc.Create(ctx, &domain.KeyResult{ObjectiveID: o.ID, Title: "Bad type", Measure: domain.Measure{Type: "grow_by", TargetValue: 10}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Create(ctx, &domain.KeyResult{ObjectiveID: o.ID, Title: "Bad unit", Measure: domain.Measure{Type: domain.MetricIncreaseTo, Unit: "euros", TargetValue: 10}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Create(ctx, &domain.KeyResult{ObjectiveID: "missing", Title: "Orphan", Measure: domain.Measure{Type: domain.MetricIncreaseTo, TargetValue: 10}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKeyResultService_Resolve_ObjectiveIndex(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Indexed", testutil.WithShortID("IDX01"))
	svc := env.keyResultSvc(nil)

	first := &domain.KeyResult{ObjectiveID: o.ID, Title: "First", Measure: domain.Measure{Type: domain.MetricIncreaseTo, TargetValue: 10}}
	second := &domain.KeyResult{ObjectiveID: o.ID, Title: "Second", Measure: domain.Measure{Type: domain.MetricIncreaseTo, TargetValue: 10}}
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.Create(ctx, second))

	got, err := svc.Resolve(ctx, "idx01/2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = svc.Resolve(ctx, first.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = svc.Resolve(ctx, "IDX01/3")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Resolve(ctx, "IDX01/zero")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKeyResultService_CheckIn_UpdatesProgress(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Check-ins")
	kr := env.mustKeyResult(t, o.ID, "Signups", testutil.WithBase(0), testutil.WithTarget(200))
	obs := &recordingObserver{}
	svc := env.keyResultSvc(nil, obs)

	now := time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC)
	res, err := svc.CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: "170", Note: "good week", Now: &now})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNotStarted, res.Before.Status)
	assert.Equal(t, 85.0, res.Progress.Percentage)
	assert.Equal(t, domain.StatusOnTrack, res.Progress.Status)
	assert.True(t, res.Crossed())
	assert.Nil(t, res.CheckIn.PreviousValue)
	assert.Equal(t, "cli", res.CheckIn.Source)

	stored, err := env.keyResults.GetByID(ctx, kr.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentValue)
	assert.Equal(t, 170.0, *stored.CurrentValue)
	require.NotNil(t, stored.LastCheckInAt)
	assert.True(t, stored.LastCheckInAt.Equal(now))

	later := now.Add(time.Hour)
	res, err = svc.CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: 200, Source: "api", Now: &later})
	require.NoError(t, err)
	require.NotNil(t, res.CheckIn.PreviousValue)
	assert.Equal(t, 170.0, *res.CheckIn.PreviousValue)
	assert.Equal(t, domain.StatusCompleted, res.Progress.Status)

	history, err := svc.History(ctx, kr.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 200.0, history[0].Value, "newest first")
	assert.Equal(t, "api", history[0].Source)
	assert.Equal(t, "good week", history[1].Note)

	ev := obs.last(t)
	assert.Equal(t, "check-in", ev.Name)
	assert.Equal(t, "key_result", ev.Fields["subject"])
	assert.Equal(t, "completed", ev.Fields["status"])
}

func TestKeyResultService_CheckIn_ZeroIsBehindNotIdle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Zero")
	kr := env.mustKeyResult(t, o.ID, "Revenue")

	res, err := env.keyResultSvc(nil).CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Progress.Percentage)
	assert.Equal(t, domain.StatusBehind, res.Progress.Status)
	assert.True(t, res.Progress.HasUpdates)
}

func TestKeyResultService_CheckIn_RejectsNonNumeric(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Bad values")
	kr := env.mustKeyResult(t, o.ID, "Revenue")
	svc := env.keyResultSvc(nil)

	for _, v := range []any{nil, "", "abc", "NaN"} {
		_, err := svc.CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: v})
		assert.ErrorIs(t, err, ErrInvalidInput, "value %v", v)
	}

	n, err := env.checkIns.CountBySubject(ctx, domain.SubjectKeyResult, kr.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeyResultService_CheckIn_RollbackOnInsertFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Rollback")
	kr := env.mustKeyResult(t, o.ID, "Signups")

	// ExecContext #1 = key result update, #2 = check-in insert.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected check-in insert failure"),
	}
	_, err := env.keyResultSvc(failUoW).CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected check-in insert failure")

	stored, err := env.keyResults.GetByID(ctx, kr.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CurrentValue, "current value should be unchanged after rollback")
	assert.Nil(t, stored.LastCheckInAt)

	n, err := env.checkIns.CountBySubject(ctx, domain.SubjectKeyResult, kr.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "no check-in should exist after rollback")
}

func TestKeyResultService_Update_KeepsCurrentValue(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Edits")
	kr := env.mustKeyResult(t, o.ID, "Signups", testutil.WithCurrent(40))
	svc := env.keyResultSvc(nil)

	edit := *kr
	edit.Title = "Signups (paid)"
	edit.TargetValue = 80
	edit.CurrentValue = domain.Float64Ptr(999)
	edit.LastCheckInAt = nil
	require.NoError(t, svc.Update(ctx, &edit))

	stored, err := env.keyResults.GetByID(ctx, kr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Signups (paid)", stored.Title)
	assert.Equal(t, 80.0, stored.TargetValue)
	require.NotNil(t, stored.CurrentValue)
	assert.Equal(t, 40.0, *stored.CurrentValue)
	assert.NotNil(t, stored.LastCheckInAt)
}

func TestKeyResultService_Delete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	o := env.mustObjective(t, "Delete")
	kr := env.mustKeyResult(t, o.ID, "Signups")
	svc := env.keyResultSvc(nil)

	_, err := svc.CheckIn(ctx, app.CheckInRequest{SubjectID: kr.ID, Value: 5})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, kr.ID))

	_, err = svc.GetByID(ctx, kr.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	n, err := env.checkIns.CountBySubject(ctx, domain.SubjectKeyResult, kr.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.Delete(ctx, kr.ID), repository.ErrNotFound)
}
