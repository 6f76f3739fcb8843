package schema

import "maps"

// Palette holds the colors one theme hands to renderers. Values are hex strings.
type Palette struct {
	Background    string                `json:"bg" yaml:"bg"`
	CardBg        string                `json:"card_bg" yaml:"card_bg"`
	Text          string                `json:"text" yaml:"text"`
	TextSecondary string                `json:"text_secondary" yaml:"text_secondary"`
	Border        string                `json:"border" yaml:"border"`
	Grid          string                `json:"grid" yaml:"grid"`
	Axis          string                `json:"axis" yaml:"axis"`
	TooltipBg     string                `json:"tooltip_bg" yaml:"tooltip_bg"`
	TooltipBorder string                `json:"tooltip_border" yaml:"tooltip_border"`
	Lines         map[VariantKey]string `json:"lines" yaml:"lines"`
}

// LineColor returns the stroke color for a variant.
func (p Palette) LineColor(k VariantKey) string {
	if c, ok := p.Lines[k]; ok {
		return c
	}
	return p.Axis
}

var themes = map[ThemeName]Palette{
	LightTheme: {
		Background:    "#ffffff",
		CardBg:        "#ffffff",
		Text:          "#111827",
		TextSecondary: "#6b7280",
		Border:        "#e5e7eb",
		Grid:          "#e5e7eb",
		Axis:          "#6b7280",
		TooltipBg:     "#ffffff",
		TooltipBorder: "#e5e7eb",
		Lines: map[VariantKey]string{
			Original: "#555555",
			VariantA: "#22C55E",
			VariantB: "#3B82F6",
			VariantC: "#8E44AD",
		},
	},
	DarkTheme: {
		Background:    "#020617",
		CardBg:        "#0f172a",
		Text:          "#f1f5f9",
		TextSecondary: "#94a3b8",
		Border:        "#334155",
		Grid:          "#1e293b",
		Axis:          "#94a3b8",
		TooltipBg:     "#1e293b",
		TooltipBorder: "#334155",
		Lines: map[VariantKey]string{
			Original: "#9ca3af",
			VariantA: "#4ade80",
			VariantB: "#60a5fa",
			VariantC: "#c4b5fd",
		},
	},
}

// ThemePalette returns a copy of the palette for a theme, falling back to light.
func ThemePalette(name ThemeName) Palette {
	p, ok := themes[name]
	if !ok {
		p = themes[LightTheme]
	}
	lines := make(map[VariantKey]string, len(p.Lines))
	maps.Copy(lines, p.Lines)
	p.Lines = lines
	return p
}

// Toggle flips between light and dark.
func (t ThemeName) Toggle() ThemeName {
	if t == DarkTheme {
		return LightTheme
	}
	return DarkTheme
}
