// Package core has the chart engine: rates, weekly aggregation, selection
// filtering, zoom and tooltips, plus the orchestration behind each command.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/dataset"
	"github.com/huangsam/abtrend/internal/outwriter"
	"github.com/huangsam/abtrend/schema"
)

// ExecutorFunc defines the function signature for executing different chart commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ErrNoInspectDate is returned when inspect runs without --at.
var ErrNoInspectDate = errors.New("--at is required")

// LoadChart loads the configured dataset and builds a chart session over it.
// Base series come from the cache manager when one is available.
func LoadChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*ChartState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(cfg.DataPath, cfg.VariantIDOverrides)
	if err != nil {
		return nil, err
	}
	base, err := cachedBaseSeries(ds, mgr)
	if err != nil {
		return nil, fmt.Errorf("failed to build series for %s: %w", ds.Source, err)
	}
	return NewChartState(base, chartOptions(cfg)), nil
}

// chartOptions maps validated config onto chart options.
func chartOptions(cfg *contract.Config) ChartOptions {
	return ChartOptions{
		Selection:    cfg.Selection,
		Granularity:  cfg.Granularity,
		Theme:        cfg.Theme,
		LineStyle:    cfg.LineStyle,
		ZoomFactor:   cfg.ZoomFactor,
		MinRangeDays: cfg.MinRangeDays,
	}
}

// GetSeriesResults computes the filtered series without printing it.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SeriesResult, time.Duration, error) {
	start := time.Now()
	chart, err := LoadChart(ctx, cfg, mgr)
	if err != nil {
		return schema.SeriesResult{}, 0, err
	}
	result := schema.SeriesResult{
		Source:      chart.Source(),
		Granularity: chart.Granularity(),
		Selection:   chart.Selection(),
		FullDomain:  chart.View().FullDomain,
		Points:      chart.Series(),
	}
	return result, time.Since(start), nil
}

// ExecuteSeries prints the filtered series.
// It serves as the main entry point for the 'series' command.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetSeriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSeriesResults(result, cfg, duration)
}

// ApplyZoomOps replays zoom operations in order.
func ApplyZoomOps(chart *ChartState, ops []string) error {
	for _, op := range ops {
		switch op {
		case contract.ZoomInOp:
			chart.ZoomIn()
		case contract.ZoomOutOp:
			chart.ZoomOut()
		case contract.ZoomResetOp:
			chart.ResetZoom()
		default:
			return fmt.Errorf("unknown zoom operation '%s'", op)
		}
	}
	return nil
}

// GetViewResults computes the view after applying the configured zoom operations.
func GetViewResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ViewResult, time.Duration, error) {
	start := time.Now()
	chart, err := LoadChart(ctx, cfg, mgr)
	if err != nil {
		return schema.ViewResult{}, 0, err
	}
	if err := ApplyZoomOps(chart, cfg.ZoomOps); err != nil {
		return schema.ViewResult{}, 0, err
	}
	return chart.View(), time.Since(start), nil
}

// ExecuteView prints the chart view.
// It serves as the main entry point for the 'view' command.
func ExecuteView(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	view, duration, err := GetViewResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintViewResults(view, cfg, duration)
}

// GetTooltipResults returns the tooltip for the visible point nearest to
// cfg.InspectAt after applying the configured zoom operations.
func GetTooltipResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TooltipResult, time.Duration, error) {
	start := time.Now()
	if !cfg.HasInspectAt {
		return schema.TooltipResult{}, 0, ErrNoInspectDate
	}
	chart, err := LoadChart(ctx, cfg, mgr)
	if err != nil {
		return schema.TooltipResult{}, 0, err
	}
	if err := ApplyZoomOps(chart, cfg.ZoomOps); err != nil {
		return schema.TooltipResult{}, 0, err
	}
	result, ok := chart.TooltipAt(cfg.InspectAt)
	if !ok {
		return schema.TooltipResult{}, 0, errors.New("no data points to inspect")
	}
	return result, time.Since(start), nil
}

// ExecuteInspect prints the tooltip for one date.
// It serves as the main entry point for the 'inspect' command.
func ExecuteInspect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTooltipResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintTooltipResults(result, cfg, duration)
}

// ExecuteExport renders the view to a PNG file. Render failures are logged and
// do not fail the command.
// It serves as the main entry point for the 'export' command.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	chart, err := LoadChart(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := ApplyZoomOps(chart, cfg.ZoomOps); err != nil {
		return err
	}
	ExportChart(ctx, chart, cfg, historyStore(mgr))
	return nil
}

// historyStore returns the export history store, or nil when tracking is off.
func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}
