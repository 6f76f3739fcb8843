package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/abtrend/schema"
)

// Tooltip builds the hover rows for one point: active variants with data,
// highest rate first, with the top row marked as the winner.
func Tooltip(p schema.Point, sel schema.Selection, theme schema.ThemeName) schema.TooltipResult {
	palette := schema.ThemePalette(theme)
	items := make([]schema.TooltipItem, 0, len(schema.AllVariants))
	for _, k := range ActiveKeys(sel) {
		v := p.Rate(k)
		if v == nil {
			continue
		}
		items = append(items, schema.TooltipItem{
			Key:       k,
			Name:      schema.VariationNames[k],
			Value:     *v,
			Formatted: fmt.Sprintf("%.2f%%", *v),
			Color:     palette.LineColor(k),
		})
	}

	slices.SortStableFunc(items, func(a, b schema.TooltipItem) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if len(items) > 0 {
		items[0].Winner = true
	}

	return schema.TooltipResult{
		Date:  p.Date,
		Label: schema.FormatDate(p.Date),
		Items: items,
	}
}

// NearestPoint returns the point closest to ts. Ties go to the earlier point.
func NearestPoint(series []schema.Point, ts int64) (schema.Point, bool) {
	if len(series) == 0 {
		return schema.Point{}, false
	}
	i, _ := slices.BinarySearchFunc(series, ts, func(p schema.Point, target int64) int {
		return cmp.Compare(p.Date, target)
	})
	switch {
	case i == 0:
		return series[0], true
	case i == len(series):
		return series[len(series)-1], true
	}
	before, after := series[i-1], series[i]
	if ts-before.Date <= after.Date-ts {
		return before, true
	}
	return after, true
}
