package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/parquet"
	"github.com/huangsam/abtrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSeriesResults outputs the filtered series, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, seriesCSVHeader, func(cw *csv.Writer) error {
				return writeSeriesCSVRows(cw, result.Points, result.Granularity, fmtFloat)
			})
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSeriesParquet(result.Points, result.Granularity, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeSeriesParquet writes points as Parquet rows to the configured output file.
func writeSeriesParquet(points []schema.Point, g schema.Granularity, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errParquetNeedsFile
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteSeries(w, parquet.ConvertSeries(points, g))
	}, "Wrote Parquet series")
}

// writeSeriesTable generates and writes the human-readable series table.
func writeSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writePointsTable(w, result.Points, result.Selection, result.Granularity, cfg, fmtFloat); err != nil {
		return err
	}
	format := schema.TickFormatter(result.Granularity)
	if _, err := fmt.Fprintf(w, "Showing %d %s points from %s to %s (%s)\n",
		len(result.Points), result.Granularity,
		format(result.FullDomain.Start), format(result.FullDomain.End), result.Selection.Label()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Series computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writePointsTable renders one row per point with a column per active variant
// and a trailing column naming the best variant.
func writePointsTable(w io.Writer, points []schema.Point, sel schema.Selection, g schema.Granularity, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	first := "Date"
	if g == schema.WeekGranularity {
		first = "Week"
	}
	headers := append([]string{first}, variantHeaders(sel)...)
	headers = append(headers, "Best")
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	format := schema.TickFormatter(g)
	data := make([][]string, 0, len(points))
	for _, p := range points {
		row := append([]string{format(p.Date)}, rateCells(p, sel, cfg, fmtFloat)...)
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
