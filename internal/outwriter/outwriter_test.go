package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jan1 = int64(1704067200000) // 2024-01-01 UTC

func day(i int) int64 {
	return jan1 + int64(i)*schema.OneDayMillis
}

func testPoints() []schema.Point {
	return []schema.Point{
		{Date: day(0), Original: schema.RatePtr(10), VariantA: schema.RatePtr(12.5)},
		{Date: day(1), Original: schema.RatePtr(11), VariantA: nil},
		{Date: day(2), Original: nil, VariantA: nil},
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Precision:    2,
		Output:       schema.TextOut,
		Width:        100,
		UseColors:    false,
		CacheBackend: schema.SQLiteBackend,
	}
}

func testSeries() schema.SeriesResult {
	return schema.SeriesResult{
		Source:      "abc",
		Granularity: schema.DayGranularity,
		Selection:   schema.NewSelection(schema.Original, schema.VariantA),
		FullDomain:  schema.Domain{Start: day(0), End: day(2)},
		Points:      testPoints(),
	}
}

func TestWriteSeriesTable(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeSeriesTable(&buf, testSeries(), testConfig(), fmtFloat, time.Second))

	out := buf.String()
	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "DATE")
	assert.Contains(t, upper, "VARIATION A")
	assert.NotContains(t, upper, "VARIATION B")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "12.50%")
	assert.Contains(t, out, "Showing 3 day points from 2024-01-01 to 2024-01-03 (Custom selection)")
	assert.Contains(t, out, "Cache backend: sqlite")
}

func TestRateCells(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	cfg := testConfig()
	sel := schema.NewSelection(schema.Original, schema.VariantA)

	cells := rateCells(testPoints()[0], sel, cfg, fmtFloat)
	assert.Equal(t, []string{"10.0%", "12.5%", "Variation A"}, cells)

	cells = rateCells(testPoints()[1], sel, cfg, fmtFloat)
	assert.Equal(t, []string{"11.0%", contract.NoDataLabel, "Original"}, cells)

	cells = rateCells(testPoints()[2], sel, cfg, fmtFloat)
	assert.Equal(t, []string{contract.NoDataLabel, contract.NoDataLabel, contract.NoDataLabel}, cells)
}

func TestWriteSeriesCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, seriesCSVHeader, func(w *csv.Writer) error {
		return writeSeriesCSVRows(w, testPoints(), schema.WeekGranularity, fmtFloat)
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, seriesCSVHeader, records[0])
	assert.Equal(t, []string{"2024-01-01", "W1", "10.00", "12.50", "", ""}, records[1])
	assert.Equal(t, []string{"2024-01-03", "W1", "", "", "", ""}, records[3])
}

func TestPrintSeriesResultsJSONToFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "series.json")

	require.NoError(t, PrintSeriesResults(testSeries(), cfg, time.Millisecond))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.SeriesResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, testSeries().Selection, decoded.Selection)
	require.Len(t, decoded.Points, 3)
	assert.Nil(t, decoded.Points[1].VariantA)
}

func TestPrintSeriesResultsParquet(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut

	err := PrintSeriesResults(testSeries(), cfg, 0)
	assert.ErrorIs(t, err, errParquetNeedsFile)

	cfg.OutputFile = filepath.Join(t.TempDir(), "series.parquet")
	require.NoError(t, PrintSeriesResults(testSeries(), cfg, 0))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteViewText(t *testing.T) {
	view := schema.ViewResult{
		Granularity:     schema.DayGranularity,
		Selection:       schema.AllSelected(),
		SelectionLabel:  schema.AllSelected().Label(),
		Theme:           schema.DarkTheme,
		LineStyle:       schema.LineStyleArea,
		FullDomain:      schema.Domain{Start: day(0), End: day(2)},
		EffectiveDomain: schema.Domain{Start: day(0), End: day(1)},
		IsZoomedIn:      true,
		Points:          testPoints(),
		Visible:         testPoints()[:2],
	}

	var buf bytes.Buffer
	require.NoError(t, WriteViewText(&buf, view, testConfig()))
	out := buf.String()
	assert.Contains(t, out, "Selection: All variations selected")
	assert.Contains(t, out, "Theme: dark | Style: area")
	assert.Contains(t, out, "Full domain: 2024-01-01 to 2024-01-03")
	assert.Contains(t, out, "Visible domain: 2024-01-01 to 2024-01-02 [zoomed in]")
	assert.Contains(t, out, "Showing 2 of 3 points")
	assert.Contains(t, out, "Original (2 points)")
	assert.NotContains(t, out, "Variation A (", "single points are not plotted")
}

func TestZoomLine(t *testing.T) {
	format := schema.TickFormatter(schema.DayGranularity)
	view := schema.ViewResult{EffectiveDomain: schema.Domain{Start: day(0), End: day(3)}}
	assert.Equal(t, "Visible domain: 2024-01-01 to 2024-01-04", zoomLine(view, format, testConfig()))

	view.IsZoomedIn = true
	view.IsAtMaxZoom = true
	assert.True(t, strings.HasSuffix(zoomLine(view, format, testConfig()), "[zoomed in, max zoom]"))
}

func testTooltip() schema.TooltipResult {
	return schema.TooltipResult{
		Date:  day(0),
		Label: "2024-01-01",
		Items: []schema.TooltipItem{
			{Key: schema.VariantA, Name: "Variation A", Value: 12.5, Formatted: "12.50%", Winner: true},
			{Key: schema.Original, Name: "Original", Value: 10, Formatted: "10.00%"},
		},
	}
}

func TestWriteTooltipTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTooltipTable(&buf, testTooltip(), testConfig(), time.Millisecond))
	out := buf.String()
	assert.Contains(t, out, "📅 2024-01-01")
	assert.Contains(t, out, winnerMark)
	assert.Less(t, strings.Index(out, "Variation A"), strings.Index(out, "Original"))

	buf.Reset()
	require.NoError(t, writeTooltipTable(&buf, schema.TooltipResult{Label: "2024-01-02"}, testConfig(), 0))
	assert.Contains(t, buf.String(), "No data for the selected variations")
}

func TestWriteTooltipCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeTooltipCSVRows(w, testTooltip(), fmtFloat))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-01-01,1,variantA,Variation A,12.5,true", lines[0])
	assert.Equal(t, "2024-01-01,2,original,Original,10.0,false", lines[1])
}

func TestPrintTooltipResultsParquetUnsupported(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	assert.Error(t, PrintTooltipResults(testTooltip(), cfg, 0))
}

func testRecords() []schema.ExportRecord {
	msg := "permission denied"
	return []schema.ExportRecord{
		{
			ExportID: "b", ExportedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), FilePath: "ab-test-chart-2024-02-01.png",
			Granularity: "day", Selection: "original,variantA", Theme: "light", LineStyle: "line",
			DomainStart: day(0), DomainEnd: day(2), PointCount: 3, Succeeded: true,
		},
		{
			ExportID: "a", ExportedAt: time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC), FilePath: "/ro/ab-test-chart-2024-01-31.png",
			Granularity: "week", Selection: "original", Theme: "dark", LineStyle: "smooth",
			PointCount: 0, Succeeded: false, ErrorText: &msg,
		},
	}
}

func TestWriteHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(&buf, testRecords()))
	out := buf.String()
	assert.Contains(t, out, "ab-test-chart-2024-02-01.png")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Showing 2 exports")

	buf.Reset()
	require.NoError(t, writeHistoryTable(&buf, nil))
	assert.Equal(t, "No exports recorded.\n", buf.String())
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeHistoryCSVRows(w, testRecords()))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-02-01T10:00:00Z", records[0][1])
	assert.Equal(t, "true", records[0][10])
	assert.Equal(t, "permission denied", records[1][11])
}

func TestGetPreviewWidth(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 80
	assert.Equal(t, 68, getPreviewWidth(cfg))
	cfg.Width = 10
	assert.Equal(t, minPreviewWidth, getPreviewWidth(cfg))
	cfg.Width = 400
	assert.Equal(t, maxPreviewWidth, getPreviewWidth(cfg))
}

func TestOutWriterFacade(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "history.csv")

	ow := NewOutWriter()
	require.NoError(t, ow.WriteHistory(testRecords(), cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "export_id,exported_at"))
}
