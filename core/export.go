package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/render"
	"github.com/huangsam/abtrend/schema"
)

// exportPrefix starts every exported chart file name.
const exportPrefix = "ab-test-chart-"

// nowFunc is swapped in tests.
var nowFunc = time.Now

// ExportFileName names a chart exported at t, using the UTC calendar date.
func ExportFileName(t time.Time) string {
	return exportPrefix + t.UTC().Format(schema.DateLayout) + ".png"
}

// ExportChart writes the current view to ExportDir as a PNG. A failure is
// logged as a warning and reported in the result, never returned. The chart
// state is only read. Each attempt is recorded in the history store when one
// is given.
func ExportChart(ctx context.Context, chart *ChartState, cfg *contract.Config, history contract.HistoryStore) schema.ExportResult {
	now := nowFunc()
	view := chart.View()
	path := filepath.Join(cfg.ExportDir, ExportFileName(now))
	result := schema.ExportResult{ID: uuid.NewString(), Path: path}

	err := writeChartFile(path, view, render.Options{
		Width:      cfg.ChartWidth,
		Height:     cfg.ChartHeight,
		PixelRatio: cfg.PixelRatio,
	})
	if err != nil {
		contract.LogWarn("Cannot export chart", err)
	} else {
		result.OK = true
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "💾 Exported chart to %s\n", path)
		}
	}

	if history != nil {
		record := exportRecord(result, view, now)
		if err != nil {
			msg := err.Error()
			record.ErrorText = &msg
		}
		if recErr := history.RecordExport(record); recErr != nil {
			contract.LogWarn("Cannot record export", recErr)
		}
	}
	return result
}

// writeChartFile renders into a new file and removes it on failure.
func writeChartFile(path string, view schema.ViewResult, opts render.Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WritePNG(file, view, opts); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	return file.Close()
}

// exportRecord describes an export attempt for the history store.
func exportRecord(result schema.ExportResult, view schema.ViewResult, at time.Time) schema.ExportRecord {
	return schema.ExportRecord{
		ExportID:    result.ID,
		ExportedAt:  at.UTC(),
		FilePath:    result.Path,
		Granularity: string(view.Granularity),
		Selection:   view.Selection.String(),
		Theme:       string(view.Theme),
		LineStyle:   string(view.LineStyle),
		DomainStart: view.EffectiveDomain.Start,
		DomainEnd:   view.EffectiveDomain.End,
		PointCount:  int32(len(view.Visible)),
		Succeeded:   result.OK,
	}
}
