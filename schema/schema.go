// Package schema has the shared data types for series, selections and views.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VariantKey identifies one of the four tracked experiment arms.
type VariantKey string

// The four variants, in their fixed display and scan order.
const (
	Original VariantKey = "original"
	VariantA VariantKey = "variantA"
	VariantB VariantKey = "variantB"
	VariantC VariantKey = "variantC"
)

// AllVariants lists every variant in fixed order.
var AllVariants = []VariantKey{Original, VariantA, VariantB, VariantC}

// VariationNames maps each variant to its display name.
var VariationNames = map[VariantKey]string{
	Original: "Original",
	VariantA: "Variation A",
	VariantB: "Variation B",
	VariantC: "Variation C",
}

// ParseVariantKey resolves a user-supplied variant name. It accepts the
// canonical key, the short letter form and the display name.
func ParseVariantKey(s string) (VariantKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "original", "o", "control":
		return Original, nil
	case "varianta", "a", "variationa", "variation a":
		return VariantA, nil
	case "variantb", "b", "variationb", "variation b":
		return VariantB, nil
	case "variantc", "c", "variationc", "variation c":
		return VariantC, nil
	default:
		return "", fmt.Errorf("unknown variant '%s'. must be original, variantA, variantB, variantC", s)
	}
}

// index returns the position of the key in AllVariants, or -1.
func (k VariantKey) index() int {
	for i, v := range AllVariants {
		if v == k {
			return i
		}
	}
	return -1
}

// Point is one timestamp plus a rate per variant. A nil rate means no data.
type Point struct {
	Date     int64    `json:"date"` // epoch milliseconds, UTC
	Original *float64 `json:"original"`
	VariantA *float64 `json:"variantA"`
	VariantB *float64 `json:"variantB"`
	VariantC *float64 `json:"variantC"`
}

// Rate returns the rate for the given variant.
func (p Point) Rate(k VariantKey) *float64 {
	switch k {
	case Original:
		return p.Original
	case VariantA:
		return p.VariantA
	case VariantB:
		return p.VariantB
	case VariantC:
		return p.VariantC
	default:
		return nil
	}
}

// SetRate assigns the rate for the given variant.
func (p *Point) SetRate(k VariantKey, v *float64) {
	switch k {
	case Original:
		p.Original = v
	case VariantA:
		p.VariantA = v
	case VariantB:
		p.VariantB = v
	case VariantC:
		p.VariantC = v
	}
}

// RatePtr wraps a value as a present rate.
func RatePtr(v float64) *float64 {
	return &v
}

// Domain is an inclusive [Start, End] window of epoch milliseconds.
type Domain struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Width returns End - Start.
func (d Domain) Width() int64 {
	return d.End - d.Start
}

// Contains reports whether ts lies inside the window.
func (d Domain) Contains(ts int64) bool {
	return ts >= d.Start && ts <= d.End
}

// Selection is an immutable set of active variants stored as a bitmask.
// The zero value is the empty set, which only exists transiently.
type Selection uint8

// NewSelection builds a selection from the given keys. Unknown keys are ignored.
func NewSelection(keys ...VariantKey) Selection {
	var s Selection
	for _, k := range keys {
		if i := k.index(); i >= 0 {
			s |= 1 << i
		}
	}
	return s
}

// AllSelected returns the selection with every variant active.
func AllSelected() Selection {
	return NewSelection(AllVariants...)
}

// Has reports whether the variant is active.
func (s Selection) Has(k VariantKey) bool {
	i := k.index()
	return i >= 0 && s&(1<<i) != 0
}

// Count returns the number of active variants.
func (s Selection) Count() int {
	n := 0
	for _, k := range AllVariants {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// IsAll reports whether every variant is active.
func (s Selection) IsAll() bool {
	return s.Count() == len(AllVariants)
}

// Toggle flips the variant and returns the new selection. Turning off the last
// active variant is refused: the receiver comes back unchanged with changed=false.
func (s Selection) Toggle(k VariantKey) (next Selection, changed bool) {
	i := k.index()
	if i < 0 {
		return s, false
	}
	next = s ^ (1 << i)
	if next.Count() == 0 {
		return s, false
	}
	return next, true
}

// Keys returns the active variants in fixed order.
func (s Selection) Keys() []VariantKey {
	keys := make([]VariantKey, 0, len(AllVariants))
	for _, k := range AllVariants {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Label is the summary shown next to the variations selector.
func (s Selection) Label() string {
	if s.IsAll() {
		return "All variations selected"
	}
	return "Custom selection"
}

// String returns the canonical comma-separated form.
func (s Selection) String() string {
	keys := s.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes the selection as a list of keys.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON decodes a list of keys.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var keys []VariantKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewSelection(keys...)
	return nil
}

// ParseSelection parses "all" or a comma-separated list of variants.
// An empty result is rejected so callers never hold an empty selection.
func ParseSelection(str string) (Selection, error) {
	str = strings.TrimSpace(str)
	if str == "" || strings.EqualFold(str, "all") {
		return AllSelected(), nil
	}
	var s Selection
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := ParseVariantKey(part)
		if err != nil {
			return 0, err
		}
		s |= NewSelection(k)
	}
	if s.Count() == 0 {
		return 0, fmt.Errorf("selection '%s' must name at least one variant", str)
	}
	return s, nil
}
