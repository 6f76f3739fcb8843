package core

import (
	"slices"

	"github.com/huangsam/abtrend/schema"
)

// ActiveKeys lists the selected variants in fixed order.
func ActiveKeys(sel schema.Selection) []schema.VariantKey {
	return sel.Keys()
}

// FilterDataBySelection trims leading and trailing points where no active
// variant has data. Interior gaps are kept. When nothing is active, or no
// active variant has any data, the input comes back unchanged.
func FilterDataBySelection(series []schema.Point, sel schema.Selection) []schema.Point {
	active := ActiveKeys(sel)
	if len(active) == 0 {
		return series
	}

	first, last := -1, -1
	for i, p := range series {
		if hasActiveValue(p, active) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	if first == -1 {
		return series
	}
	return slices.Clone(series[first : last+1])
}

func hasActiveValue(p schema.Point, active []schema.VariantKey) bool {
	for _, k := range active {
		if p.Rate(k) != nil {
			return true
		}
	}
	return false
}

// FullDomain spans the first and last dates of the filtered series, falling
// back to the base series. Both empty yields the zero domain.
func FullDomain(filtered, base []schema.Point) schema.Domain {
	src := filtered
	if len(src) == 0 {
		src = base
	}
	if len(src) == 0 {
		return schema.Domain{}
	}
	return schema.Domain{Start: src[0].Date, End: src[len(src)-1].Date}
}

// ClipToDomain returns the points whose date falls inside d.
func ClipToDomain(series []schema.Point, d schema.Domain) []schema.Point {
	out := make([]schema.Point, 0, len(series))
	for _, p := range series {
		if d.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}
