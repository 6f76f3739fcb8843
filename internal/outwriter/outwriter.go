// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints a filtered series using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(result, cfg, duration)
}

// WriteView prints a chart view using the configured output format.
func (ow *OutWriter) WriteView(view schema.ViewResult, cfg *contract.Config, duration time.Duration) error {
	return PrintViewResults(view, cfg, duration)
}

// WriteTooltip prints a tooltip using the configured output format.
func (ow *OutWriter) WriteTooltip(result schema.TooltipResult, cfg *contract.Config, duration time.Duration) error {
	return PrintTooltipResults(result, cfg, duration)
}

// WriteHistory prints stored export records using the configured output format.
func (ow *OutWriter) WriteHistory(records []schema.ExportRecord, cfg *contract.Config) error {
	return PrintHistoryList(records, cfg)
}
