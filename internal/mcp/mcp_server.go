// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/birkin/core"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// selectionOptions are the filter arguments shared by the series tools.
func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("regime", mcp.Description("Market regime. Defaults to the configured regime."), mcp.Enum("Expansion", "Standard", "Contraction")),
		mcp.WithString("model", mcp.Description("Bag model."), mcp.Enum("Birkin 25", "Birkin 30", "Birkin 35", "Birkin 40")),
		mcp.WithString("hardware", mcp.Description("Hardware finish."), mcp.Enum("Palladium", "Gold", "Rose Gold", "Brushed Gold")),
		mcp.WithString("special", mcp.Description("Leather grade or collector status."), mcp.Enum("Classic Leather", "Precious Skin", "Collector/LE")),
		mcp.WithString("listing", mcp.Description("Sales channel."), mcp.Enum("Retail", "Secondary")),
	}
}

// NewMCPServer initializes and configures the Birkin Index MCP server without starting it.
// Every tool shares one loader, so the snapshot is fetched at most once per day.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Birkin Index Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  core.NewConfiguredLoader(baseCfg, mgr),
		now:     time.Now,
	}

	// --- 1. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series", append([]mcp.ToolOption{
		mcp.WithDescription("Return the adjusted resale price series and summary for one bag configuration."),
	}, selectionOptions()...)...), h.handleGetSeries)

	// --- 2. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary", append([]mcp.ToolOption{
		mcp.WithDescription("Return spot valuation, net exit floor and annualized yield for one bag configuration."),
	}, selectionOptions()...)...), h.handleGetSummary)

	// --- 3. Tool: refresh_dataset ---
	s.AddTool(mcp.NewTool("refresh_dataset",
		mcp.WithDescription("Fetch a new pricing snapshot now, ignoring the daily cache."),
	), h.handleRefreshDataset)

	// --- 4. Tool: list_factors ---
	s.AddTool(mcp.NewTool("list_factors",
		mcp.WithDescription("List every pricing multiplier and the summary formulas."),
	), h.handleListFactors)

	return s
}

// StartMCPServer starts the Birkin Index MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
