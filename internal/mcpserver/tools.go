package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/service"
)

const mcpSource = "mcp"

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// DashboardTool handles okr_dashboard.
type DashboardTool struct {
	dashboard service.DashboardService
}

func NewDashboardTool(dashboard service.DashboardService) *DashboardTool {
	return &DashboardTool{dashboard: dashboard}
}

func (t *DashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_dashboard",
		mcp.WithDescription("Progress tree of objectives, key results, initiatives and success metrics with percentages and status labels."),
		mcp.WithString("scope",
			mcp.Description("Comma-separated objective short IDs or IDs to include (default: all top-level objectives)"),
		),
		mcp.WithString("period",
			mcp.Description("Only objectives in this period, e.g. 2026-Q4"),
		),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived objectives (default false)"),
		),
	)
}

func (t *DashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dr := app.NewDashboardRequest()
	for _, ref := range strings.Split(req.GetString("scope", ""), ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			dr.ObjectiveScope = append(dr.ObjectiveScope, ref)
		}
	}
	dr.Period = req.GetString("period", "")
	dr.IncludeArchived = req.GetBool("include_archived", false)

	resp, err := t.dashboard.GetDashboard(ctx, dr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	return jsonResult(resp)
}

// ListObjectivesTool handles okr_list_objectives.
type ListObjectivesTool struct {
	objectives service.ObjectiveService
}

func NewListObjectivesTool(objectives service.ObjectiveService) *ListObjectivesTool {
	return &ListObjectivesTool{objectives: objectives}
}

func (t *ListObjectivesTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_list_objectives",
		mcp.WithDescription("List objectives with their short IDs, periods and statuses."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived objectives (default false)"),
		),
	)
}

type objectiveSummary struct {
	ID       string                 `json:"id"`
	ShortID  string                 `json:"short_id"`
	Title    string                 `json:"title"`
	Period   string                 `json:"period,omitempty"`
	Owner    string                 `json:"owner,omitempty"`
	Status   domain.ObjectiveStatus `json:"status"`
	ParentID *string                `json:"parent_id,omitempty"`
}

func (t *ListObjectivesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.objectives.List(ctx, req.GetBool("include_archived", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing objectives failed: %v", err)), nil
	}
	out := make([]objectiveSummary, 0, len(list))
	for _, o := range list {
		out = append(out, objectiveSummary{
			ID:       o.ID,
			ShortID:  o.ShortID,
			Title:    o.Title,
			Period:   o.Period,
			Owner:    o.Owner,
			Status:   o.Status,
			ParentID: o.ParentID,
		})
	}
	return jsonResult(out)
}

// PreviewTool handles okr_preview_progress.
type PreviewTool struct {
	preview service.PreviewService
}

func NewPreviewTool(preview service.PreviewService) *PreviewTool {
	return &PreviewTool{preview: preview}
}

func (t *PreviewTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_preview_progress",
		mcp.WithDescription("Compute the percentage and status label for unsaved values. Nothing is stored."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("increase_to, decrease_to, achieve_or_not, should_stay_above or should_stay_below"),
		),
		mcp.WithString("base_value", mcp.Description("Starting value (number)")),
		mcp.WithString("current_value", mcp.Description("Current value (number)")),
		mcp.WithString("target_value", mcp.Required(), mcp.Description("Target value (number)")),
		mcp.WithString("unit", mcp.Description("number (default), percentage or currency")),
		mcp.WithBoolean("has_updates", mcp.Description("Whether the item has been checked in before")),
	)
}

func (t *PreviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	typ := req.GetString("type", "")
	if typ == "" {
		return mcp.NewToolResultError("'type' is required"), nil
	}
	resp, err := t.preview.Preview(ctx, app.PreviewRequest{
		Type:       typ,
		Base:       args["base_value"],
		Current:    args["current_value"],
		Target:     args["target_value"],
		Unit:       req.GetString("unit", ""),
		HasUpdates: req.GetBool("has_updates", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}
	return jsonResult(resp)
}

// CheckInTool handles okr_check_in.
type CheckInTool struct {
	keyResults service.KeyResultService
}

func NewCheckInTool(keyResults service.KeyResultService) *CheckInTool {
	return &CheckInTool{keyResults: keyResults}
}

func (t *CheckInTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_check_in",
		mcp.WithDescription("Record a new current value for a key result and return its progress before and after."),
		mcp.WithString("key_result",
			mcp.Required(),
			mcp.Description("Key result ID, ID prefix, or OBJECTIVE/N (e.g. GRO01/2 for the second key result of GRO01)"),
		),
		mcp.WithString("value", mcp.Required(), mcp.Description("New current value (number)")),
		mcp.WithString("note", mcp.Description("Optional note stored with the check-in")),
	)
}

type checkInSummary struct {
	KeyResult string           `json:"key_result"`
	Value     float64          `json:"value"`
	Previous  *float64         `json:"previous_value"`
	Before    app.ProgressView `json:"before"`
	Progress  app.ProgressView `json:"progress"`
	Crossed   bool             `json:"crossed"`
}

func (t *CheckInTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("key_result", "")
	if ref == "" {
		return mcp.NewToolResultError("'key_result' is required"), nil
	}
	value, ok := req.GetArguments()["value"]
	if !ok {
		return mcp.NewToolResultError("'value' is required"), nil
	}

	kr, err := t.keyResults.Resolve(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("key result %q: %v", ref, err)), nil
	}
	res, err := t.keyResults.CheckIn(ctx, app.CheckInRequest{
		SubjectID: kr.ID,
		Value:     value,
		Note:      req.GetString("note", ""),
		Source:    mcpSource,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check-in failed: %v", err)), nil
	}
	return jsonResult(checkInSummary{
		KeyResult: kr.Title,
		Value:     res.CheckIn.Value,
		Previous:  res.CheckIn.PreviousValue,
		Before:    res.Before,
		Progress:  res.Progress,
		Crossed:   res.Crossed(),
	})
}
