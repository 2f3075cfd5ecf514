package contract

import (
	"errors"
	"testing"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/stretchr/testify/assert"
)

func TestNewDashboardRequest_SetsDefaults(t *testing.T) {
	req := NewDashboardRequest()

	assert.Nil(t, req.Now)
	assert.Nil(t, req.ObjectiveScope)
	assert.False(t, req.IncludeArchived)
	assert.Empty(t, req.Period)
}

func TestProgressView_RoundTripsResult(t *testing.T) {
	r := progress.Result{Percentage: 62.5, Status: domain.StatusAtRisk, HasUpdates: true}
	assert.Equal(t, r, ProgressView{Percentage: 62.5, Status: domain.StatusAtRisk, HasUpdates: true}.Result())
}

func TestCheckInResult_Crossed(t *testing.T) {
	res := CheckInResult{
		Before:   ProgressView{Status: domain.StatusAtRisk},
		Progress: ProgressView{Status: domain.StatusOnTrack},
	}
	assert.True(t, res.Crossed())

	res.Progress.Status = domain.StatusAtRisk
	assert.False(t, res.Crossed())
}

func TestDashboardResponse_WalkVisitsNestedChildren(t *testing.T) {
	resp := DashboardResponse{Objectives: []ObjectiveView{
		{ID: "a", Children: []ObjectiveView{{ID: "a1"}, {ID: "a2", Children: []ObjectiveView{{ID: "a2x"}}}}},
		{ID: "b"},
	}}

	var ids []string
	var depths []int
	resp.Walk(func(o *ObjectiveView, depth int) {
		ids = append(ids, o.ID)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"a", "a1", "a2", "a2x", "b"}, ids)
	assert.Equal(t, []int{0, 1, 1, 2, 0}, depths)
}

func TestValidationErrors_JoinsMessages(t *testing.T) {
	errs := ValidationErrors{
		&ValidationError{Field: "objectives[0].title", Message: "is required"},
		errors.New("plain"),
	}
	assert.Equal(t, "objectives[0].title: is required; plain", errs.Error())
}
