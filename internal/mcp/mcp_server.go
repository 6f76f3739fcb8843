// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the chart MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"A/B Test Trend Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Compute conversion-rate series for the experiment variations."),
		dataPathArg(),
		granularityArg(),
		selectArg(),
	), h.handleGetSeries)

	// --- 2. Tool: get_view ---
	s.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Compute the chart view, including the visible window after zooming."),
		dataPathArg(),
		granularityArg(),
		selectArg(),
		mcp.WithString("zoom", mcp.Description("Comma-separated zoom operations applied in order (in, out, reset).")),
	), h.handleGetView)

	// --- 3. Tool: inspect_point ---
	s.AddTool(mcp.NewTool("inspect_point",
		mcp.WithDescription("Return the tooltip for the data point nearest to a date, best rate first."),
		mcp.WithString("date", mcp.Description("Date to inspect (YYYY-MM-DD)."), mcp.Required()),
		dataPathArg(),
		granularityArg(),
		selectArg(),
		mcp.WithString("theme", mcp.Description("Palette used for tooltip colors."), mcp.Enum("light", "dark")),
	), h.handleInspectPoint)

	// --- 4. Tool: export_chart ---
	s.AddTool(mcp.NewTool("export_chart",
		mcp.WithDescription("Render the chart to a PNG file and return where it was written."),
		dataPathArg(),
		granularityArg(),
		selectArg(),
		mcp.WithString("zoom", mcp.Description("Comma-separated zoom operations applied before export.")),
		mcp.WithString("theme", mcp.Description("Chart palette."), mcp.Enum("light", "dark")),
		mcp.WithString("line_style", mcp.Description("Line style."), mcp.Enum("line", "smooth", "area")),
		mcp.WithString("export_dir", mcp.Description("Directory to write the PNG into.")),
	), h.handleExportChart)

	return s
}

func dataPathArg() mcp.ToolOption {
	return mcp.WithString("data_path", mcp.Description("Path to the experiment JSON (defaults to the configured dataset)."))
}

func granularityArg() mcp.ToolOption {
	return mcp.WithString("granularity", mcp.Description("Series granularity. Defaults to 'day'."), mcp.Enum("day", "week"))
}

func selectArg() mcp.ToolOption {
	return mcp.WithString("select", mcp.Description("Comma-separated variations (original, variantA, variantB, variantC) or 'all'."))
}

// StartMCPServer starts the chart MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
