package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/render"
	"github.com/huangsam/abtrend/schema"
)

// PrintViewResults outputs a chart view, dispatching based on the output format configured.
// Only the points inside the effective domain are written for csv and parquet.
func PrintViewResults(view schema.ViewResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON view"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, seriesCSVHeader, func(cw *csv.Writer) error {
				return writeSeriesCSVRows(cw, view.Visible, view.Granularity, fmtFloat)
			})
		}, "Wrote CSV view"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSeriesParquet(view.Visible, view.Granularity, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := WriteViewText(w, view, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "View computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
			return err
		}, "Wrote view")
	}
	return nil
}

// WriteViewText writes the human-readable view: a summary header, the visible
// points and an ASCII preview per active variant.
func WriteViewText(w io.Writer, view schema.ViewResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	format := schema.TickFormatter(view.Granularity)

	if _, err := fmt.Fprintf(w, "Granularity: %s | Selection: %s (%s) | Theme: %s | Style: %s\n",
		view.Granularity, view.SelectionLabel, view.Selection, view.Theme, view.LineStyle); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Full domain: %s to %s\n",
		format(view.FullDomain.Start), format(view.FullDomain.End)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, zoomLine(view, format, cfg)); err != nil {
		return err
	}

	if err := writePointsTable(w, view.Visible, view.Selection, view.Granularity, cfg, fmtFloat); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d points\n", len(view.Visible), len(view.Points)); err != nil {
		return err
	}

	preview := render.Preview(view.Visible, view.Selection, getPreviewWidth(cfg), previewHeight)
	if preview == "" {
		return nil
	}
	_, err := fmt.Fprint(w, "\n", preview)
	return err
}

// zoomLine describes the effective domain and zoom flags.
func zoomLine(view schema.ViewResult, format func(int64) string, cfg *contract.Config) string {
	var flags []string
	if view.IsZoomedIn {
		flags = append(flags, "zoomed in")
	}
	if view.IsAtMaxZoom {
		flags = append(flags, "max zoom")
	}
	line := fmt.Sprintf("Visible domain: %s to %s", format(view.EffectiveDomain.Start), format(view.EffectiveDomain.End))
	if len(flags) == 0 {
		return line
	}
	suffix := "[" + strings.Join(flags, ", ") + "]"
	if cfg.UseColors {
		suffix = contract.ZoomColor.Sprint(suffix)
	}
	return line + " " + suffix
}
