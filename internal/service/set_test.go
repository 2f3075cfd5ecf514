package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/testutil"
)

func TestNewSet_SharesDatabaseAndObservers(t *testing.T) {
	obs := &recordingObserver{}
	set := NewSet(testutil.NewTestDB(t), progress.Default(), obs)
	ctx := context.Background()

	obj := &domain.Objective{ShortID: "SET01", Title: "Wire everything"}
	require.NoError(t, set.Objectives.Create(ctx, obj))
	kr := &domain.KeyResult{ObjectiveID: obj.ID, Title: "One", Measure: domain.Measure{Type: domain.MetricIncreaseTo, TargetValue: 10}}
	require.NoError(t, set.KeyResults.Create(ctx, kr))
	_, err := set.KeyResults.CheckIn(ctx, contract.CheckInRequest{SubjectID: kr.ID, Value: 5})
	require.NoError(t, err)

	resp, err := set.Dashboard.GetDashboard(ctx, contract.NewDashboardRequest())
	require.NoError(t, err)
	require.Len(t, resp.Objectives, 1)
	assert.Equal(t, 50.0, resp.Objectives[0].Progress.Percentage)
	assert.Equal(t, "get-dashboard", obs.last(t).Name)
}
