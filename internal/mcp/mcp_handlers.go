package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/abtrend/core"
	"github.com/huangsam/abtrend/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the request's chart arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateChart(cfg, contract.ChartOverrides{
		DataPath:    request.GetString("data_path", ""),
		Granularity: request.GetString("granularity", ""),
		Select:      request.GetString("select", ""),
		Theme:       request.GetString("theme", ""),
		LineStyle:   request.GetString("line_style", ""),
		Zoom:        request.GetString("zoom", ""),
		At:          request.GetString("date", ""),
	})
	return cfg, err
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, _, err := core.GetSeriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid view parameters: %v", err)), nil
	}

	view, _, err := core.GetViewResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("view failed: %v", err)), nil
	}
	return jsonResult(view), nil
}

func (h *toolHandler) handleInspectPoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(request.GetString("date", "")) == "" {
		return mcp.NewToolResultError("invalid inspect parameters: date is required"), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid inspect parameters: %v", err)), nil
	}

	tooltip, _, err := core.GetTooltipResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return jsonResult(tooltip), nil
}

func (h *toolHandler) handleExportChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid export parameters: %v", err)), nil
	}
	if dir := strings.TrimSpace(request.GetString("export_dir", "")); dir != "" {
		cfg.ExportDir = dir
	}

	ctx = core.WithSuppressHeader(ctx)
	chart, err := core.LoadChart(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	if err := core.ApplyZoomOps(chart, cfg.ZoomOps); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}

	var history contract.HistoryStore
	if h.mgr != nil {
		history = h.mgr.GetHistoryStore()
	}
	result := core.ExportChart(ctx, chart, cfg, history)
	if !result.OK {
		return mcp.NewToolResultError(fmt.Sprintf("export to %s failed; see server log", result.Path)), nil
	}
	return jsonResult(result), nil
}
