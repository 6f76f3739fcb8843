package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/parquet"
	"github.com/huangsam/abtrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistoryList outputs stored export records, dispatching based on the output format configured.
func PrintHistoryList(records []schema.ExportRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON history"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		header := []string{"export_id", "exported_at", "file_path", "granularity", "selection", "theme", "line_style", "domain_start", "domain_end", "point_count", "succeeded", "error"}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeHistoryCSVRows(cw, records)
			})
		}, "Wrote CSV history"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteExports(w, parquet.ConvertExportRecords(records))
		}, "Wrote Parquet history"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, records)
		}, "Wrote history")
	}
	return nil
}

// writeHistoryCSVRows writes one row per export.
func writeHistoryCSVRows(w *csv.Writer, records []schema.ExportRecord) error {
	for _, r := range records {
		errText := ""
		if r.ErrorText != nil {
			errText = *r.ErrorText
		}
		row := []string{
			r.ExportID,
			r.ExportedAt.UTC().Format(time.RFC3339),
			r.FilePath,
			r.Granularity,
			r.Selection,
			r.Theme,
			r.LineStyle,
			strconv.FormatInt(r.DomainStart, 10),
			strconv.FormatInt(r.DomainEnd, 10),
			strconv.Itoa(int(r.PointCount)),
			strconv.FormatBool(r.Succeeded),
			errText,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeHistoryTable prints exports newest first.
func writeHistoryTable(w io.Writer, records []schema.ExportRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No exports recorded.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Exported", "File", "Granularity", "Selection", "Theme", "Style", "Points", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range records {
		status := "ok"
		if !r.Succeeded {
			status = "failed"
		}
		data = append(data, []string{
			r.ExportedAt.Local().Format(time.DateTime),
			r.FilePath,
			r.Granularity,
			r.Selection,
			r.Theme,
			r.LineStyle,
			strconv.Itoa(int(r.PointCount)),
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d exports\n", len(records))
	return err
}
