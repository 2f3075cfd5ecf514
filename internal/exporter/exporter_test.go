package exporter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/importer"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *app.DashboardResponse {
	base, cur := 0.0, 40.0
	parentID := "obj-1"
	due := "2026-12-31"
	return &app.DashboardResponse{
		Summary: app.DashboardSummary{GeneratedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)},
		Objectives: []app.ObjectiveView{{
			ID:         "obj-1",
			ShortID:    "GRO01",
			Title:      "Grow revenue",
			Status:     domain.ObjectiveActive,
			TargetDate: &due,
			KeyResults: []app.KeyResultView{{
				Title: "Reach 100 customers",
				Measure: app.MeasureView{
					Type: domain.MetricIncreaseTo, Unit: domain.UnitNumber,
					BaseValue: &base, CurrentValue: &cur, TargetValue: 100,
				},
				Progress: app.ProgressView{Percentage: 40, Status: domain.StatusBehind, HasUpdates: true},
				Initiatives: []app.InitiativeView{{
					Title:    "Launch referral program",
					Tasks:    []app.TaskView{{Title: "Draft terms", Done: true}},
					Status:   domain.InitiativeInProgress,
					Progress: app.ProgressView{Percentage: 50, Status: domain.StatusBehind},
					Metrics: []app.MetricView{{
						Title:    "Referral signups",
						Measure:  app.MeasureView{Type: domain.MetricIncreaseTo, Unit: domain.UnitNumber, TargetValue: 20},
						Progress: app.ProgressView{Status: domain.StatusNotStarted},
					}},
				}},
			}},
			Children: []app.ObjectiveView{{
				ID:       "obj-2",
				ShortID:  "GRO02",
				ParentID: &parentID,
				Title:    "Expand EMEA",
				Status:   domain.ObjectiveActive,
				Progress: app.ProgressView{Status: domain.StatusNotStarted},
			}},
			Progress: app.ProgressView{Percentage: 40, Status: domain.StatusBehind, HasUpdates: true},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatYAML, "yml": FormatYAML, ".YAML": FormatYAML, "toml": FormatTOML, ".json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFromDashboard_FlattensChildrenWithParentRef(t *testing.T) {
	doc := FromDashboard(sampleResponse())

	require.Len(t, doc.Objectives, 2)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, "2026-10-01T08:00:00Z", doc.GeneratedAt)
	assert.Equal(t, "GRO01", doc.Objectives[0].ShortID)
	assert.Empty(t, doc.Objectives[0].ParentRef)
	assert.Equal(t, "GRO01", doc.Objectives[1].ParentRef)
	assert.Equal(t, "2026-12-31", doc.Objectives[0].TargetDate)

	kr := doc.Objectives[0].KeyResults[0]
	assert.Equal(t, 0.0, kr.Base)
	assert.Equal(t, 40.0, kr.Current)
	assert.Equal(t, 40.0, kr.Progress.Percentage)
	assert.Equal(t, "behind", kr.Progress.Status)

	assert.Equal(t, []importer.TaskDoc{{Title: "Draft terms", Done: true}}, kr.Initiatives[0].Tasks)

	m := kr.Initiatives[0].SuccessMetrics[0]
	assert.Nil(t, m.Base)
	assert.Nil(t, m.Current)
}

func TestEncode_YAMLRoundTripsThroughImporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromDashboard(sampleResponse()), FormatYAML))

	doc, err := importer.ParseYAML(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, importer.ValidateDocument(doc))
	require.Len(t, doc.Objectives, 2)
	assert.Equal(t, "Reach 100 customers", doc.Objectives[0].KeyResults[0].Title)
	assert.Equal(t, "GRO01", doc.Objectives[1].ParentRef)
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromDashboard(sampleResponse()), FormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	objs := raw["objectives"].([]any)
	assert.Len(t, objs, 2)

	doc, err := importer.ParseJSON(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, importer.ValidateDocument(doc))
}

func TestEncode_TOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromDashboard(sampleResponse()), FormatTOML))
	assert.Contains(t, buf.String(), "[[objectives]]")
	assert.Contains(t, buf.String(), "short_id = 'GRO01'")

	var decoded importer.Document
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Objectives, 2)
	assert.Equal(t, "Expand EMEA", decoded.Objectives[1].Title)
	assert.Equal(t, "behind", decoded.Objectives[0].Progress.Status)
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, &importer.Document{}, Format("xml"))
	assert.Error(t, err)
}
