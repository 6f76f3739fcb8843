// Package render draws chart views as PNG images and terminal previews.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/huangsam/abtrend/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/interp"
)

// Layout defaults for PNG output.
const (
	maxXTicks      = 8
	yTickCount     = 5
	smoothSteps    = 8
	strokeWidth    = 2
	dotWidth       = 3
	areaFillAlpha  = 48
	legendFontSize = 9
)

// Options controls the PNG canvas.
type Options struct {
	Width      int
	Height     int
	PixelRatio int
}

// run is a contiguous stretch of one variant with no missing values.
type run struct {
	xs []float64
	ys []float64
}

// WritePNG draws the view and encodes it as PNG.
func WritePNG(w io.Writer, view schema.ViewResult, opts Options) error {
	ch := BuildChart(view, opts)
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// BuildChart assembles the go-chart model for a view without rendering it.
func BuildChart(view schema.ViewResult, opts Options) chart.Chart {
	if opts.PixelRatio < 1 {
		opts.PixelRatio = 1
	}
	palette := schema.ThemePalette(view.Theme)
	domain := paddedDomain(view.EffectiveDomain)
	yMax := niceMax(maxRate(view.Visible, view.Selection))

	gridStyle := chart.Style{StrokeColor: hexColor(palette.Grid), StrokeWidth: 1}
	axisStyle := chart.Style{
		StrokeColor: hexColor(palette.Axis),
		FontColor:   hexColor(palette.TextSecondary),
	}

	// Transparent anchor keeps the chart renderable when nothing is visible.
	// go-chart rejects a chart whose series are all hidden.
	series := []chart.Series{
		chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 0},
			XValues: []float64{float64(domain.Start), float64(domain.End)},
			YValues: []float64{0, 0},
		},
	}
	for _, k := range view.Selection.Keys() {
		series = append(series, variantSeries(view, k, palette)...)
	}

	ch := chart.Chart{
		Width:  opts.Width * opts.PixelRatio,
		Height: opts.Height * opts.PixelRatio,
		DPI:    chart.DefaultDPI * float64(opts.PixelRatio),
		Background: chart.Style{
			FillColor: hexColor(palette.Background),
			Padding:   chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: hexColor(palette.CardBg)},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: float64(domain.Start), Max: float64(domain.End)},
			Ticks:          XTicks(view.Visible, view.Granularity, domain),
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          YTicks(yMax),
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{legend(view.Selection, palette)}
	return ch
}

// variantSeries draws one variant as a series per run so gaps stay open.
func variantSeries(view schema.ViewResult, k schema.VariantKey, palette schema.Palette) []chart.Series {
	color := hexColor(palette.LineColor(k))
	var out []chart.Series
	for _, r := range splitRuns(view.Visible, k) {
		style := chart.Style{StrokeColor: color, StrokeWidth: strokeWidth}
		if len(r.xs) == 1 {
			style.DotWidth = dotWidth
			style.DotColor = color
		}
		xs, ys := r.xs, r.ys
		switch view.LineStyle {
		case schema.LineStyleSmooth:
			xs, ys = smooth(r.xs, r.ys)
		case schema.LineStyleArea:
			style.FillColor = color.WithAlpha(areaFillAlpha)
		}
		out = append(out, chart.ContinuousSeries{
			Name:    schema.VariationNames[k],
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
	}
	return out
}

// splitRuns returns the contiguous non-missing stretches of a variant.
func splitRuns(points []schema.Point, k schema.VariantKey) []run {
	var runs []run
	var cur run
	for _, p := range points {
		v := p.Rate(k)
		if v == nil {
			if len(cur.xs) > 0 {
				runs = append(runs, cur)
				cur = run{}
			}
			continue
		}
		cur.xs = append(cur.xs, float64(p.Date))
		cur.ys = append(cur.ys, *v)
	}
	if len(cur.xs) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// smooth densifies a run with a monotone cubic so curves never overshoot the data.
// Runs shorter than three points are returned as is.
func smooth(xs, ys []float64) ([]float64, []float64) {
	if len(xs) < 3 {
		return xs, ys
	}
	var fb interp.FritschButland
	if err := fb.Fit(xs, ys); err != nil {
		return xs, ys
	}
	outX := make([]float64, 0, (len(xs)-1)*smoothSteps+1)
	outY := make([]float64, 0, cap(outX))
	for i := 0; i < len(xs)-1; i++ {
		step := (xs[i+1] - xs[i]) / smoothSteps
		for j := range smoothSteps {
			x := xs[i] + float64(j)*step
			outX = append(outX, x)
			outY = append(outY, fb.Predict(x))
		}
	}
	outX = append(outX, xs[len(xs)-1])
	outY = append(outY, ys[len(ys)-1])
	return outX, outY
}

// XTicks labels up to maxXTicks visible dates, evenly thinned.
func XTicks(points []schema.Point, g schema.Granularity, domain schema.Domain) []chart.Tick {
	format := schema.TickFormatter(g)
	if len(points) == 0 {
		return []chart.Tick{
			{Value: float64(domain.Start), Label: format(domain.Start)},
			{Value: float64(domain.End), Label: format(domain.End)},
		}
	}
	stride := int(math.Ceil(float64(len(points)) / maxXTicks))
	ticks := make([]chart.Tick, 0, maxXTicks)
	for i := 0; i < len(points); i += stride {
		ticks = append(ticks, chart.Tick{Value: float64(points[i].Date), Label: format(points[i].Date)})
	}
	return ticks
}

// YTicks spaces yTickCount+1 percentage ticks from zero to yMax.
func YTicks(yMax float64) []chart.Tick {
	ticks := make([]chart.Tick, 0, yTickCount+1)
	step := yMax / yTickCount
	for i := 0; i <= yTickCount; i++ {
		v := step * float64(i)
		ticks = append(ticks, chart.Tick{Value: v, Label: schema.FormatPercent(v)})
	}
	return ticks
}

// niceMax rounds the top of the Y axis up to 1, 2 or 5 times a power of ten
// per tick step.
func niceMax(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 10
	}
	raw := v / yTickCount
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * mag; step*yTickCount >= v {
			return step * yTickCount
		}
	}
	return 10 * mag * yTickCount
}

// maxRate is the largest active rate among the points.
func maxRate(points []schema.Point, sel schema.Selection) float64 {
	best := 0.0
	for _, p := range points {
		for _, k := range sel.Keys() {
			if v := p.Rate(k); v != nil && *v > best {
				best = *v
			}
		}
	}
	return best
}

// paddedDomain widens a zero-width domain by one day each side.
func paddedDomain(d schema.Domain) schema.Domain {
	if d.Width() > 0 {
		return d
	}
	return schema.Domain{Start: d.Start - schema.OneDayMillis, End: d.End + schema.OneDayMillis}
}

// legend lists each active variant once, regardless of how many runs it has.
func legend(sel schema.Selection, palette schema.Palette) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		textStyle := chart.Style{
			Font:      defaults.Font,
			FontSize:  legendFontSize,
			FontColor: hexColor(palette.Text),
		}
		x := cb.Left + 8
		y := cb.Top + 14
		for _, k := range sel.Keys() {
			r.SetStrokeColor(hexColor(palette.LineColor(k)))
			r.SetStrokeWidth(strokeWidth)
			r.MoveTo(x, y-4)
			r.LineTo(x+16, y-4)
			r.Stroke()

			textStyle.WriteTextOptionsToRenderer(r)
			name := schema.VariationNames[k]
			r.Text(name, x+22, y)
			x += 22 + r.MeasureText(name).Width() + 16
		}
	}
}

// hexColor parses "#rrggbb".
func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
