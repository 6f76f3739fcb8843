package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
)

// errParquetNeedsFile is returned when parquet output would go to a terminal.
var errParquetNeedsFile = errors.New("parquet output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// variantHeaders returns the display names of the active variants.
func variantHeaders(sel schema.Selection) []string {
	keys := sel.Keys()
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = schema.VariationNames[k]
	}
	return headers
}

// rateCells formats the active rates of a point for a table row.
// The best rate is highlighted and missing values become the no-data label.
func rateCells(p schema.Point, sel schema.Selection, cfg *contract.Config, fmtFloat func(float64) string) []string {
	best, hasBest := contract.BestVariant(p, sel)
	cells := make([]string, 0, sel.Count()+1)
	for _, k := range sel.Keys() {
		v := p.Rate(k)
		if v == nil {
			cells = append(cells, noDataCell(cfg))
			continue
		}
		text := fmtFloat(*v) + "%"
		cells = append(cells, contract.GetColorRate(text, cfg.UseColors && hasBest && k == best))
	}
	if hasBest {
		cells = append(cells, schema.VariationNames[best])
	} else {
		cells = append(cells, noDataCell(cfg))
	}
	return cells
}

// noDataCell is the placeholder for a missing value.
func noDataCell(cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorNoData()
	}
	return contract.NoDataLabel
}

// csvRate formats an optional rate for CSV, leaving missing values empty.
func csvRate(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

// seriesCSVHeader is shared by series and view CSV output.
var seriesCSVHeader = []string{"date", "label", "original", "variant_a", "variant_b", "variant_c"}

// writeSeriesCSVRows writes one CSV row per point.
func writeSeriesCSVRows(w *csv.Writer, points []schema.Point, g schema.Granularity, fmtFloat func(float64) string) error {
	format := schema.TickFormatter(g)
	for _, p := range points {
		row := []string{
			schema.FormatDate(p.Date),
			format(p.Date),
			csvRate(p.Original, fmtFloat),
			csvRate(p.VariantA, fmtFloat),
			csvRate(p.VariantB, fmtFloat),
			csvRate(p.VariantC, fmtFloat),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
