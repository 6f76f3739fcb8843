package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// winnerMark flags the top tooltip row.
const winnerMark = "🏆"

// PrintTooltipResults outputs a tooltip, dispatching based on the output format configured.
func PrintTooltipResults(result schema.TooltipResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON tooltip"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"date", "rank", "variant", "name", "rate", "winner"}, func(cw *csv.Writer) error {
				return writeTooltipCSVRows(cw, result, fmtFloat)
			})
		}, "Wrote CSV tooltip"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for inspect")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTooltipTable(w, result, cfg, duration)
		}, "Wrote tooltip")
	}
	return nil
}

// writeTooltipCSVRows writes one row per tooltip item.
func writeTooltipCSVRows(w *csv.Writer, result schema.TooltipResult, fmtFloat func(float64) string) error {
	for i, item := range result.Items {
		row := []string{
			result.Label,
			strconv.Itoa(i + 1),
			string(item.Key),
			item.Name,
			fmtFloat(item.Value),
			strconv.FormatBool(item.Winner),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeTooltipTable prints the tooltip as a ranked table.
func writeTooltipTable(w io.Writer, result schema.TooltipResult, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "📅 %s\n", result.Label); err != nil {
		return err
	}
	if len(result.Items) == 0 {
		_, err := fmt.Fprintln(w, "No data for the selected variations on this date.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Variation", "Rate", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, item := range result.Items {
		mark := ""
		if item.Winner {
			mark = winnerMark
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			item.Name,
			contract.GetColorRate(item.Formatted, cfg.UseColors && item.Winner),
			mark,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Inspect completed in %v\n", duration)
	return err
}
