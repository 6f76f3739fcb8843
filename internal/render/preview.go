package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/huangsam/abtrend/schema"
)

// Preview plots each active variant as an ASCII graph. Missing values are
// skipped, so a plot shows the variant's data points in date order. Variants
// with fewer than two values are left out. A variant whose values are all
// equal has no vertical range to plot and is summarized on one line.
func Preview(points []schema.Point, sel schema.Selection, width, height int) string {
	var sb strings.Builder
	for _, k := range sel.Keys() {
		var data []float64
		for _, p := range points {
			if v := p.Rate(k); v != nil {
				data = append(data, *v)
			}
		}
		if len(data) < 2 {
			continue
		}
		caption := fmt.Sprintf("%s (%d points)", schema.VariationNames[k], len(data))
		if slices.Min(data) == slices.Max(data) {
			fmt.Fprintf(&sb, "%s flat at %.2f%%", caption, data[0])
		} else {
			sb.WriteString(asciigraph.Plot(data, asciigraph.Caption(caption), asciigraph.Height(height), asciigraph.Width(width)))
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}
