package core

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/abtrend/schema"
)

// defaultMemoSize bounds the derived-series memo. Four variants give 15
// non-empty selections per granularity.
const defaultMemoSize = 32

// BaseSeries is the pair of unfiltered series derived from one dataset.
type BaseSeries struct {
	Source string         `json:"source"` // dataset fingerprint
	Daily  []schema.Point `json:"daily"`
	Weekly []schema.Point `json:"weekly"`
}

// ByGranularity returns the base series for a granularity.
func (b BaseSeries) ByGranularity(g schema.Granularity) []schema.Point {
	if g == schema.WeekGranularity {
		return b.Weekly
	}
	return b.Daily
}

// ChartOptions carries the initial view settings.
type ChartOptions struct {
	Selection    schema.Selection
	Granularity  schema.Granularity
	Theme        schema.ThemeName
	LineStyle    schema.LineStyle
	ZoomFactor   float64
	MinRangeDays float64
	MemoSize     int
}

// memoKey identifies one derived series.
type memoKey struct {
	source      string
	selection   schema.Selection
	granularity schema.Granularity
}

// ChartState is one interactive chart session. Derived series are recomputed
// only when the source, selection or granularity change, and are memoized.
type ChartState struct {
	base        BaseSeries
	selection   schema.Selection
	granularity schema.Granularity
	theme       schema.ThemeName
	lineStyle   schema.LineStyle
	zoom        *ZoomController

	memo       *lru.Cache[memoKey, []schema.Point]
	last       *memoKey
	filtered   []schema.Point
	recomputes int
}

// NewChartState builds a session over the given base series.
func NewChartState(base BaseSeries, opts ChartOptions) *ChartState {
	if opts.Selection.Count() == 0 {
		opts.Selection = schema.AllSelected()
	}
	if _, ok := schema.ValidGranularities[opts.Granularity]; !ok {
		opts.Granularity = schema.DayGranularity
	}
	if _, ok := schema.ValidThemes[opts.Theme]; !ok {
		opts.Theme = schema.LightTheme
	}
	if _, ok := schema.ValidLineStyles[opts.LineStyle]; !ok {
		opts.LineStyle = schema.LineStyleLine
	}
	if opts.ZoomFactor <= 0 || opts.ZoomFactor >= 1 {
		opts.ZoomFactor = schema.DefaultZoomFactor
	}
	if opts.MinRangeDays <= 0 {
		opts.MinRangeDays = schema.DefaultMinZoomDays
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = defaultMemoSize
	}

	memo, err := lru.New[memoKey, []schema.Point](opts.MemoSize)
	if err != nil {
		memo, _ = lru.New[memoKey, []schema.Point](defaultMemoSize)
	}

	c := &ChartState{
		base:        base,
		selection:   opts.Selection,
		granularity: opts.Granularity,
		theme:       opts.Theme,
		lineStyle:   opts.LineStyle,
		zoom:        NewZoomController(schema.Domain{}, opts.MinRangeDays, opts.ZoomFactor),
		memo:        memo,
	}
	c.refresh()
	return c
}

// refresh recomputes the derived series if its inputs changed since the last call.
// It reports whether the inputs changed.
func (c *ChartState) refresh() bool {
	key := memoKey{source: c.base.Source, selection: c.selection, granularity: c.granularity}
	if c.last != nil && *c.last == key {
		return false
	}

	filtered, ok := c.memo.Get(key)
	if !ok {
		base := c.base.ByGranularity(c.granularity)
		filtered = FilterDataBySelection(base, c.selection)
		c.memo.Add(key, filtered)
		c.recomputes++
	}

	c.last = &key
	c.filtered = filtered
	c.zoom.SetFullDomain(FullDomain(filtered, c.base.ByGranularity(c.granularity)))
	return true
}

// Series returns the filtered series for the current selection and granularity.
func (c *ChartState) Series() []schema.Point {
	c.refresh()
	return c.filtered
}

// Recomputes counts memo misses; useful for verifying change detection.
func (c *ChartState) Recomputes() int {
	return c.recomputes
}

// Selection returns the active selection.
func (c *ChartState) Selection() schema.Selection { return c.selection }

// Granularity returns the active granularity.
func (c *ChartState) Granularity() schema.Granularity { return c.granularity }

// Theme returns the active theme.
func (c *ChartState) Theme() schema.ThemeName { return c.theme }

// LineStyle returns the active line style.
func (c *ChartState) LineStyle() schema.LineStyle { return c.lineStyle }

// Source returns the dataset fingerprint backing the chart.
func (c *ChartState) Source() string { return c.base.Source }

// ToggleVariant flips one variant. Removing the last active variant is ignored.
// Any real change resets zoom.
func (c *ChartState) ToggleVariant(k schema.VariantKey) bool {
	next, changed := c.selection.Toggle(k)
	if !changed {
		return false
	}
	c.selection = next
	c.refresh()
	c.zoom.ResetZoom()
	return true
}

// SetSelection replaces the selection. Empty or identical selections are ignored.
func (c *ChartState) SetSelection(sel schema.Selection) bool {
	if sel.Count() == 0 || sel == c.selection {
		return false
	}
	c.selection = sel
	c.refresh()
	c.zoom.ResetZoom()
	return true
}

// SetGranularity switches between day and week. Any real change resets zoom.
func (c *ChartState) SetGranularity(g schema.Granularity) bool {
	if _, ok := schema.ValidGranularities[g]; !ok || g == c.granularity {
		return false
	}
	c.granularity = g
	c.refresh()
	c.zoom.ResetZoom()
	return true
}

// SetTheme changes the palette. Zoom is unaffected.
func (c *ChartState) SetTheme(t schema.ThemeName) bool {
	if _, ok := schema.ValidThemes[t]; !ok || t == c.theme {
		return false
	}
	c.theme = t
	return true
}

// ToggleTheme flips light and dark.
func (c *ChartState) ToggleTheme() schema.ThemeName {
	c.theme = c.theme.Toggle()
	return c.theme
}

// SetLineStyle changes how lines are drawn. Zoom is unaffected.
func (c *ChartState) SetLineStyle(s schema.LineStyle) bool {
	if _, ok := schema.ValidLineStyles[s]; !ok || s == c.lineStyle {
		return false
	}
	c.lineStyle = s
	return true
}

// ZoomIn narrows the effective domain.
func (c *ChartState) ZoomIn() {
	c.refresh()
	c.zoom.ZoomIn()
}

// ZoomOut widens the effective domain.
func (c *ChartState) ZoomOut() {
	c.refresh()
	c.zoom.ZoomOut()
}

// ResetZoom returns to the full domain.
func (c *ChartState) ResetZoom() {
	c.zoom.ResetZoom()
}

// IsZoomedIn reports whether a zoom override is active.
func (c *ChartState) IsZoomedIn() bool {
	c.refresh()
	return c.zoom.IsZoomedIn()
}

// IsAtMaxZoom reports whether zooming in further is a no-op.
func (c *ChartState) IsAtMaxZoom() bool {
	c.refresh()
	return c.zoom.IsAtMaxZoom()
}

// EffectiveDomain returns the visible window.
func (c *ChartState) EffectiveDomain() schema.Domain {
	c.refresh()
	return c.zoom.EffectiveDomain()
}

// View snapshots everything a renderer needs.
func (c *ChartState) View() schema.ViewResult {
	c.refresh()
	effective := c.zoom.EffectiveDomain()
	return schema.ViewResult{
		Granularity:     c.granularity,
		Selection:       c.selection,
		SelectionLabel:  c.selection.Label(),
		Theme:           c.theme,
		LineStyle:       c.lineStyle,
		FullDomain:      c.zoom.FullDomain(),
		EffectiveDomain: effective,
		IsZoomedIn:      c.zoom.IsZoomedIn(),
		IsAtMaxZoom:     c.zoom.IsAtMaxZoom(),
		Points:          c.filtered,
		Visible:         ClipToDomain(c.filtered, effective),
	}
}

// TooltipAt returns the tooltip for the visible point nearest to ts. When the
// zoom window holds no points it falls back to the whole filtered series.
func (c *ChartState) TooltipAt(ts int64) (schema.TooltipResult, bool) {
	c.refresh()
	candidates := ClipToDomain(c.filtered, c.zoom.EffectiveDomain())
	if len(candidates) == 0 {
		candidates = c.filtered
	}
	p, ok := NearestPoint(candidates, ts)
	if !ok {
		return schema.TooltipResult{}, false
	}
	return Tooltip(p, c.selection, c.theme), true
}
