package core

import (
	"math"

	"github.com/huangsam/abtrend/schema"
)

// ZoomController holds an optional override window over a full domain.
// A nil zoom means unzoomed. Every operation replaces the state wholesale.
type ZoomController struct {
	full     schema.Domain
	minRange int64
	factor   float64
	zoom     *schema.Domain
}

// MinRangeMillis converts a day count into milliseconds.
func MinRangeMillis(days float64) int64 {
	return int64(math.Round(days * float64(schema.OneDayMillis)))
}

// NewZoomController creates an unzoomed controller.
func NewZoomController(full schema.Domain, minRangeDays, factor float64) *ZoomController {
	return &ZoomController{
		full:     full,
		minRange: MinRangeMillis(minRangeDays),
		factor:   factor,
	}
}

// FullDomain returns the domain zoom operations are bounded by.
func (z *ZoomController) FullDomain() schema.Domain {
	return z.full
}

// SetFullDomain rebinds the controller to a new full domain and drops any override.
func (z *ZoomController) SetFullDomain(full schema.Domain) {
	z.full = full
	z.zoom = nil
}

// MinRange returns the floor width in milliseconds.
func (z *ZoomController) MinRange() int64 {
	return z.minRange
}

// EffectiveDomain returns the override if zoomed, else the full domain.
func (z *ZoomController) EffectiveDomain() schema.Domain {
	if z.zoom != nil {
		return *z.zoom
	}
	return z.full
}

// IsZoomedIn reports whether an override is set.
func (z *ZoomController) IsZoomedIn() bool {
	return z.zoom != nil
}

// IsAtMaxZoom reports whether the effective width is at or below the floor.
func (z *ZoomController) IsAtMaxZoom() bool {
	return z.EffectiveDomain().Width() <= z.minRange
}

// ZoomIn shrinks the window symmetrically by factor/2 of its width on each
// side. A step that would undershoot the floor snaps to a floor-wide window
// centered on the current midpoint. At the floor it does nothing.
func (z *ZoomController) ZoomIn() {
	cur := z.EffectiveDomain()
	span := cur.Width()
	if span <= z.minRange {
		return
	}

	shrink := z.step(span)
	next := schema.Domain{Start: cur.Start + shrink, End: cur.End - shrink}
	if next.Width() < z.minRange {
		start := cur.Start + span/2 - z.minRange/2
		next = schema.Domain{Start: start, End: start + z.minRange}
	}
	z.zoom = &next
}

// ZoomOut widens the window by factor/2 of its width on each side, clamped to
// the full domain. Reaching both full bounds returns to the unzoomed state.
func (z *ZoomController) ZoomOut() {
	cur := z.EffectiveDomain()
	expand := z.step(cur.Width())
	next := schema.Domain{
		Start: max(z.full.Start, cur.Start-expand),
		End:   min(z.full.End, cur.End+expand),
	}
	if next.Start <= z.full.Start && next.End >= z.full.End {
		z.zoom = nil
		return
	}
	z.zoom = &next
}

// ResetZoom returns to the unzoomed state.
func (z *ZoomController) ResetZoom() {
	z.zoom = nil
}

// step is half the zoom factor applied to a width, rounded to whole milliseconds.
func (z *ZoomController) step(span int64) int64 {
	return int64(math.Round(float64(span) * z.factor / 2))
}
