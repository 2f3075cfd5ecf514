package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var convertNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func TestConvert_Minimal(t *testing.T) {
	out, err := Convert(validMinimalDocument(), convertNow)
	require.NoError(t, err)

	require.Len(t, out.Objectives, 1)
	obj := out.Objectives[0]
	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, "GROW01", obj.ShortID)
	assert.Equal(t, domain.ObjectiveActive, obj.Status)
	assert.Nil(t, obj.ParentID)
	assert.Equal(t, "2026-03-15", obj.StartDate.Format(dateLayout))

	require.Len(t, out.KeyResults, 1)
	kr := out.KeyResults[0]
	assert.Equal(t, obj.ID, kr.ObjectiveID)
	assert.Equal(t, domain.MetricIncreaseTo, kr.Type)
	assert.Equal(t, domain.UnitNumber, kr.Unit)
	require.NotNil(t, kr.BaseValue)
	assert.Equal(t, 1000.0, *kr.BaseValue)
	assert.Equal(t, 5000.0, kr.TargetValue)
	assert.Nil(t, kr.CurrentValue)
	assert.False(t, kr.HasUpdates())
	assert.Empty(t, out.CheckIns)
}

func TestConvert_CurrentValueBecomesCheckIn(t *testing.T) {
	doc := validMinimalDocument()
	doc.Objectives[0].KeyResults[0].Current = "2500"

	out, err := Convert(doc, convertNow)
	require.NoError(t, err)

	kr := out.KeyResults[0]
	require.NotNil(t, kr.CurrentValue)
	assert.Equal(t, 2500.0, *kr.CurrentValue)
	assert.True(t, kr.HasUpdates())

	require.Len(t, out.CheckIns, 1)
	c := out.CheckIns[0]
	assert.Equal(t, domain.SubjectKeyResult, c.SubjectKind)
	assert.Equal(t, kr.ID, c.SubjectID)
	assert.Equal(t, 2500.0, c.Value)
	assert.Equal(t, "import", c.Source)
}

func TestConvert_FullTree(t *testing.T) {
	doc := &Document{Objectives: []ObjectiveDoc{
		{
			// Child listed before its parent.
			ShortID:   "TEAM01",
			Title:     "Team objective",
			ParentRef: "co",
		},
		{
			Ref:        "co",
			ShortID:    "CORP01",
			Title:      "Company objective",
			Status:     "paused",
			StartDate:  "2026-01-01",
			TargetDate: "2026-03-31",
			KeyResults: []KeyResultDoc{{
				Title:  "Cut churn",
				Type:   "decrease_to",
				Unit:   "percentage",
				Base:   "8",
				Target: 4,
				Initiatives: []InitiativeDoc{{
					Title:   "Onboarding revamp",
					Status:  "in_progress",
					DueDate: "2026-02-15",
					Tasks:   []TaskDoc{{Title: "Interview users", Done: true}, {Title: "Ship checklist"}},
					SuccessMetrics: []SuccessMetricDoc{{
						Title: "Activation", Type: "should_stay_above", Target: "40", Current: 42,
					}},
				}},
			}},
		},
	}}
	require.Empty(t, ValidateDocument(doc))

	out, err := Convert(doc, convertNow)
	require.NoError(t, err)

	require.Len(t, out.Objectives, 2)
	parent, child := out.Objectives[0], out.Objectives[1]
	assert.Equal(t, "CORP01", parent.ShortID, "parents are emitted first")
	assert.Equal(t, domain.ObjectivePaused, parent.Status)
	require.NotNil(t, parent.TargetDate)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	require.Len(t, out.Initiatives, 1)
	assert.Equal(t, domain.InitiativeInProgress, out.Initiatives[0].Status)
	assert.Equal(t, out.KeyResults[0].ID, out.Initiatives[0].KeyResultID)

	require.Len(t, out.Tasks, 2)
	assert.True(t, out.Tasks[0].Done)
	assert.NotNil(t, out.Tasks[0].CompletedAt)
	assert.False(t, out.Tasks[1].Done)

	require.Len(t, out.Metrics, 1)
	assert.Equal(t, 40.0, out.Metrics[0].TargetValue)
	require.Len(t, out.CheckIns, 1)
	assert.Equal(t, domain.SubjectSuccessMetric, out.CheckIns[0].SubjectKind)
}
