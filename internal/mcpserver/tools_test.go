package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/alexanderramin/okra/internal/testutil"
)

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content")
	return ""
}

func seededSet(t *testing.T) (*service.Set, *domain.KeyResult) {
	t.Helper()
	set := service.NewSet(testutil.NewTestDB(t), progress.Default())
	ctx := context.Background()

	obj := &domain.Objective{ShortID: "GRO01", Title: "Grow revenue", Period: "2026-Q4"}
	require.NoError(t, set.Objectives.Create(ctx, obj))
	kr := &domain.KeyResult{
		ObjectiveID: obj.ID,
		Title:       "Reach 100 customers",
		Measure:     domain.Measure{Type: domain.MetricIncreaseTo, TargetValue: 100},
	}
	require.NoError(t, set.KeyResults.Create(ctx, kr))
	return set, kr
}

func TestNew_RegistersTools(t *testing.T) {
	set, _ := seededSet(t)
	s := New(set, "test")

	reply := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(reply)
	require.NoError(t, err)
	for _, name := range []string{"okr_dashboard", "okr_list_objectives", "okr_preview_progress", "okr_check_in"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}

func TestCheckInTool(t *testing.T) {
	set, kr := seededSet(t)
	tool := NewCheckInTool(set.KeyResults)

	def := tool.Definition()
	assert.Equal(t, "okr_check_in", def.Name)
	assert.ElementsMatch(t, []string{"key_result", "value"}, def.InputSchema.Required)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"key_result": "GRO01/1", "value": "62", "note": "from chat"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var out checkInSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, kr.Title, out.KeyResult)
	assert.Equal(t, 62.0, out.Value)
	assert.Equal(t, domain.StatusAtRisk, out.Progress.Status)
	assert.True(t, out.Crossed)

	history, err := set.KeyResults.History(context.Background(), kr.ID, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, mcpSource, history[0].Source)
}

func TestCheckInTool_Errors(t *testing.T) {
	set, _ := seededSet(t)
	tool := NewCheckInTool(set.KeyResults)
	ctx := context.Background()

	for name, args := range map[string]map[string]any{
		"missing ref":   {"value": 1},
		"missing value": {"key_result": "GRO01/1"},
		"unknown ref":   {"key_result": "GRO01/9", "value": 1},
		"bad value":     {"key_result": "GRO01/1", "value": "lots"},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := tool.Handle(ctx, makeReq(args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestDashboardTool(t *testing.T) {
	set, kr := seededSet(t)
	_, err := set.KeyResults.CheckIn(context.Background(), app.CheckInRequest{SubjectID: kr.ID, Value: 90})
	require.NoError(t, err)
	tool := NewDashboardTool(set.Dashboard)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"scope": "GRO01", "period": "2026-Q4"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var dash app.DashboardResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &dash))
	require.Len(t, dash.Objectives, 1)
	assert.Equal(t, 90.0, dash.Objectives[0].Progress.Percentage)
	assert.Equal(t, domain.StatusOnTrack, dash.Objectives[0].Progress.Status)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"scope": "NOPE01"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListObjectivesTool(t *testing.T) {
	set, _ := seededSet(t)
	tool := NewListObjectivesTool(set.Objectives)

	res, err := tool.Handle(context.Background(), makeReq(nil))
	require.NoError(t, err)

	var list []objectiveSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "GRO01", list[0].ShortID)
	assert.Equal(t, "2026-Q4", list[0].Period)
}

func TestPreviewTool(t *testing.T) {
	set, _ := seededSet(t)
	tool := NewPreviewTool(set.Preview)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"type": "increase_to", "base_value": 0, "current_value": "30", "target_value": 40, "unit": "currency",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var out app.PreviewResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, 75.0, out.Percentage)
	assert.Equal(t, "$30", out.Current)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"target_value": 1}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
