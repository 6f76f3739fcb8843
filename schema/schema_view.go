package schema

// SeriesResult is the filtered series for one granularity and selection.
type SeriesResult struct {
	Source      string      `json:"source"`
	Granularity Granularity `json:"granularity"`
	Selection   Selection   `json:"selection"`
	FullDomain  Domain      `json:"full_domain"`
	Points      []Point     `json:"points"`
}

// ViewResult is everything a renderer or selector needs to draw the chart.
type ViewResult struct {
	Granularity     Granularity `json:"granularity"`
	Selection       Selection   `json:"selection"`
	SelectionLabel  string      `json:"selection_label"`
	Theme           ThemeName   `json:"theme"`
	LineStyle       LineStyle   `json:"line_style"`
	FullDomain      Domain      `json:"full_domain"`
	EffectiveDomain Domain      `json:"effective_domain"`
	IsZoomedIn      bool        `json:"is_zoomed_in"`
	IsAtMaxZoom     bool        `json:"is_at_max_zoom"`
	Points          []Point     `json:"points"`
	Visible         []Point     `json:"visible"`
}

// TooltipItem is one row of the hover tooltip.
type TooltipItem struct {
	Key       VariantKey `json:"key"`
	Name      string     `json:"name"`
	Value     float64    `json:"value"`
	Formatted string     `json:"formatted"`
	Color     string     `json:"color"`
	Winner    bool       `json:"winner"`
}

// TooltipResult is the tooltip for a single point.
type TooltipResult struct {
	Date  int64         `json:"date"`
	Label string        `json:"label"`
	Items []TooltipItem `json:"items"`
}

// ExportResult describes a PNG export attempt.
type ExportResult struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	OK   bool   `json:"ok"`
}
