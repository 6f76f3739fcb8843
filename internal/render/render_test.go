package render

import (
	"bytes"
	"testing"

	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func day(i int) int64 {
	return 1704067200000 + int64(i)*schema.OneDayMillis // 2024-01-01
}

func samplePoints() []schema.Point {
	return []schema.Point{
		{Date: day(0), Original: schema.RatePtr(10), VariantA: schema.RatePtr(12)},
		{Date: day(1), Original: schema.RatePtr(11), VariantA: nil},
		{Date: day(2), Original: schema.RatePtr(9), VariantA: schema.RatePtr(14)},
		{Date: day(3), Original: schema.RatePtr(12), VariantA: schema.RatePtr(13)},
	}
}

func sampleView(style schema.LineStyle, theme schema.ThemeName) schema.ViewResult {
	points := samplePoints()
	d := schema.Domain{Start: points[0].Date, End: points[len(points)-1].Date}
	return schema.ViewResult{
		Granularity:     schema.DayGranularity,
		Selection:       schema.NewSelection(schema.Original, schema.VariantA),
		Theme:           theme,
		LineStyle:       style,
		FullDomain:      d,
		EffectiveDomain: d,
		Points:          points,
		Visible:         points,
	}
}

func TestWritePNG(t *testing.T) {
	tests := []struct {
		name  string
		style schema.LineStyle
		theme schema.ThemeName
	}{
		{"line light", schema.LineStyleLine, schema.LightTheme},
		{"smooth dark", schema.LineStyleSmooth, schema.DarkTheme},
		{"area light", schema.LineStyleArea, schema.LightTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WritePNG(&buf, sampleView(tt.style, tt.theme), Options{Width: 320, Height: 200, PixelRatio: 2})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestWritePNGEmptyView(t *testing.T) {
	view := schema.ViewResult{
		Selection: schema.AllSelected(),
		Theme:     schema.LightTheme,
	}
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, view, Options{Width: 200, Height: 120, PixelRatio: 1}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestBuildChartPixelRatio(t *testing.T) {
	ch := BuildChart(sampleView(schema.LineStyleLine, schema.LightTheme), Options{Width: 300, Height: 100, PixelRatio: 2})
	assert.Equal(t, 600, ch.Width)
	assert.Equal(t, 200, ch.Height)
	assert.InDelta(t, chart.DefaultDPI*2, ch.DPI, 1e-9)

	// Anchor, one run for the original, two for variant A.
	assert.Len(t, ch.Series, 4)
}

func TestSplitRuns(t *testing.T) {
	runs := splitRuns(samplePoints(), schema.VariantA)
	require.Len(t, runs, 2)
	assert.Equal(t, []float64{12}, runs[0].ys)
	assert.Equal(t, []float64{14, 13}, runs[1].ys)

	assert.Len(t, splitRuns(samplePoints(), schema.Original), 1)
	assert.Empty(t, splitRuns(samplePoints(), schema.VariantC))
}

func TestSmoothMonotone(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 2, 2, 5}
	sx, sy := smooth(xs, ys)
	require.Len(t, sx, (len(xs)-1)*smoothSteps+1)
	assert.Equal(t, xs[0], sx[0])
	assert.Equal(t, xs[3], sx[len(sx)-1])
	for i := 1; i < len(sy); i++ {
		assert.GreaterOrEqual(t, sy[i], sy[i-1]-1e-9, "monotone data must not dip")
	}

	shortX, shortY := smooth([]float64{0, 1}, []float64{3, 4})
	assert.Equal(t, []float64{0, 1}, shortX)
	assert.Equal(t, []float64{3, 4}, shortY)
}

func TestTicks(t *testing.T) {
	y := YTicks(20)
	require.Len(t, y, yTickCount+1)
	assert.Equal(t, "0%", y[0].Label)
	assert.Equal(t, "20%", y[len(y)-1].Label)

	x := XTicks(samplePoints(), schema.DayGranularity, schema.Domain{})
	require.Len(t, x, 4)
	assert.Equal(t, "2024-01-01", x[0].Label)

	w := XTicks(samplePoints()[:1], schema.WeekGranularity, schema.Domain{})
	assert.Equal(t, "W1", w[0].Label)

	many := make([]schema.Point, 30)
	for i := range many {
		many[i] = schema.Point{Date: day(i)}
	}
	assert.LessOrEqual(t, len(XTicks(many, schema.DayGranularity, schema.Domain{})), maxXTicks)
}

func TestNiceMax(t *testing.T) {
	assert.InDelta(t, 10.0, niceMax(0), 1e-9)
	assert.InDelta(t, 25.0, niceMax(14.2), 1e-9)
	assert.InDelta(t, 50.0, niceMax(42), 1e-9)
	assert.InDelta(t, 100.0, niceMax(100), 1e-9)
}

func TestPreview(t *testing.T) {
	out := Preview(samplePoints(), schema.NewSelection(schema.VariantA, schema.VariantC), 30, 5)
	assert.Contains(t, out, "Variation A (3 points)")
	assert.NotContains(t, out, "Variation C")
}

func TestPreviewFlatSeries(t *testing.T) {
	points := []schema.Point{
		{Date: day(0), Original: schema.RatePtr(5), VariantA: schema.RatePtr(0)},
		{Date: day(1), Original: schema.RatePtr(5), VariantA: schema.RatePtr(0)},
		{Date: day(2), Original: schema.RatePtr(5), VariantA: schema.RatePtr(2)},
	}
	var out string
	require.NotPanics(t, func() {
		out = Preview(points, schema.AllSelected(), 48, 8)
	})
	assert.Contains(t, out, "Original (3 points) flat at 5.00%")
	assert.Contains(t, out, "Variation A (3 points)")
	assert.NotContains(t, out, "Variation A (3 points) flat")
}
