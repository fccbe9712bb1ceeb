package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/birkin/core"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  *core.Loader
	now     func() time.Time
}

// summaryView is the get_summary payload.
type summaryView struct {
	Selection   schema.Selection  `json:"selection"`
	Summary     schema.Summary    `json:"summary"`
	YieldLabel  string            `json:"yield_label"`
	Points      int               `json:"points"`
	LastUpdated string            `json:"last_updated"`
	Source      schema.DataSource `json:"source"`
	Degraded    bool              `json:"degraded"`
}

// refreshView is the refresh_dataset payload.
type refreshView struct {
	LastUpdated string            `json:"last_updated"`
	Source      schema.DataSource `json:"source"`
	Degraded    bool              `json:"degraded"`
	Reason      string            `json:"reason,omitempty"`
	Series      int               `json:"series"`
	Points      int               `json:"points"`
}

// selectionFrom starts at the configured selection and applies any tool arguments.
func (h *toolHandler) selectionFrom(request mcp.CallToolRequest) (schema.Selection, error) {
	sel := h.baseCfg.Selection
	if v := request.GetString("regime", ""); v != "" {
		sel.Regime = schema.Regime(v)
	}
	if v := request.GetString("model", ""); v != "" {
		sel.Model = schema.Model(v)
	}
	if v := request.GetString("hardware", ""); v != "" {
		sel.Hardware = schema.Hardware(v)
	}
	if v := request.GetString("special", ""); v != "" {
		sel.Special = schema.SpecialCategory(v)
	}
	if v := request.GetString("listing", ""); v != "" {
		sel.Listing = schema.ListingCategory(v)
	}
	return sel, contract.ValidateSelection(sel)
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) series(ctx context.Context, request mcp.CallToolRequest) (*schema.SeriesResult, *mcp.CallToolResult) {
	sel, err := h.selectionFrom(request)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err))
	}
	result, err := h.loader.SeriesFor(ctx, sel, h.now())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("loading prices failed: %v", err))
	}
	return result, nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, failure := h.series(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, failure := h.series(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(summaryView{
		Selection:   result.Selection,
		Summary:     result.Summary,
		YieldLabel:  result.Summary.YieldLabel(),
		Points:      len(result.Points),
		LastUpdated: result.LastUpdated,
		Source:      result.Source,
		Degraded:    result.Degraded,
	}), nil
}

func (h *toolHandler) handleRefreshDataset(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loaded, err := h.loader.Refresh(ctx, h.now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
	}
	series, points := loaded.Dataset.Counts()
	return jsonResult(refreshView{
		LastUpdated: loaded.LastUpdated,
		Source:      loaded.Source,
		Degraded:    loaded.Degraded,
		Reason:      loaded.Reason,
		Series:      series,
		Points:      points,
	}), nil
}

func (h *toolHandler) handleListFactors(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.BuildFactorsRenderModel()), nil
}
