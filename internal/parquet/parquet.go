// Package parquet provides data structures and functions for exporting chart
// series and export history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/abtrend/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesRow is one point of a filtered series. Missing rates are null.
type SeriesRow struct {
	// Date is the point timestamp (UTC midnight for daily points)
	Date time.Time `parquet:"date,snappy"`

	// Label is the tick label for the point, either YYYY-MM-DD or W{n}
	Label string `parquet:"label,snappy"`

	// Granularity is day or week
	Granularity string `parquet:"granularity,snappy"`

	Original *float64 `parquet:"original,optional,snappy"`
	VariantA *float64 `parquet:"variant_a,optional,snappy"`
	VariantB *float64 `parquet:"variant_b,optional,snappy"`
	VariantC *float64 `parquet:"variant_c,optional,snappy"`
}

// ExportRow represents a single PNG export attempt.
// This struct maps to the abtrend_exports database table.
type ExportRow struct {
	ExportID    string    `parquet:"export_id,snappy"`
	ExportedAt  time.Time `parquet:"exported_at,snappy"`
	FilePath    string    `parquet:"file_path,snappy"`
	Granularity string    `parquet:"granularity,snappy"`
	Selection   string    `parquet:"selection,snappy"`
	Theme       string    `parquet:"theme,snappy"`
	LineStyle   string    `parquet:"line_style,snappy"`

	// DomainStart and DomainEnd bound the visible window in epoch milliseconds
	DomainStart int64 `parquet:"domain_start,snappy"`
	DomainEnd   int64 `parquet:"domain_end,snappy"`

	PointCount int32   `parquet:"point_count,snappy"`
	Succeeded  bool    `parquet:"succeeded,snappy"`
	ErrorText  *string `parquet:"error_text,optional,snappy"`
}

// WriteSeries writes series rows to w.
func WriteSeries(w io.Writer, rows []SeriesRow) error {
	return writeRows(w, rows)
}

// WriteExports writes export rows to w.
func WriteExports(w io.Writer, rows []ExportRow) error {
	return writeRows(w, rows)
}

// WriteExportsParquet writes export rows to a Parquet file.
func WriteExportsParquet(rows []ExportRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return writeRows(file, rows)
}

// writeRows writes all rows with a schema inferred from the struct tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSeries maps schema points to Parquet rows.
func ConvertSeries(points []schema.Point, g schema.Granularity) []SeriesRow {
	format := schema.TickFormatter(g)
	rows := make([]SeriesRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, SeriesRow{
			Date:        time.UnixMilli(p.Date).UTC(),
			Label:       format(p.Date),
			Granularity: string(g),
			Original:    p.Original,
			VariantA:    p.VariantA,
			VariantB:    p.VariantB,
			VariantC:    p.VariantC,
		})
	}
	return rows
}

// ConvertExportRecords maps stored export records to Parquet rows.
func ConvertExportRecords(records []schema.ExportRecord) []ExportRow {
	rows := make([]ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ExportRow{
			ExportID:    r.ExportID,
			ExportedAt:  r.ExportedAt,
			FilePath:    r.FilePath,
			Granularity: r.Granularity,
			Selection:   r.Selection,
			Theme:       r.Theme,
			LineStyle:   r.LineStyle,
			DomainStart: r.DomainStart,
			DomainEnd:   r.DomainEnd,
			PointCount:  r.PointCount,
			Succeeded:   r.Succeeded,
			ErrorText:   r.ErrorText,
		})
	}
	return rows
}
