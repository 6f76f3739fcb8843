package core

// CalcRate converts raw counts into a conversion percentage. It returns nil
// (no data) when visits are absent or zero, or when conversions are absent.
// The result is not rounded or clamped; conversions above visits exceed 100.
func CalcRate(visits, conversions *int64) *float64 {
	if visits == nil || *visits == 0 || conversions == nil {
		return nil
	}
	rate := float64(*conversions) / float64(*visits) * 100
	return &rate
}
