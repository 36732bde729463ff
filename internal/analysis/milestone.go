package analysis

// CrossingYear scans years in order and returns the first (possibly
// fractional) year at which values reaches threshold.
//
// When the previous point is below the threshold the crossing is linearly
// interpolated between the two points and rounded to one decimal. A series
// that never reaches the threshold has no crossing (ok=false).
func CrossingYear(years []int, values []float64, threshold float64) (float64, bool) {
	n := len(years)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		if values[i] < threshold {
			continue
		}
		if i == 0 || values[i-1] >= threshold {
			return float64(years[i]), true
		}
		prevV, curV := values[i-1], values[i]
		prevY, curY := float64(years[i-1]), float64(years[i])
		frac := (threshold - prevV) / (curV - prevV)
		return Round1(prevY + frac*(curY-prevY)), true
	}
	return 0, false
}

// BreakEvenYear returns the first year at which values turns from negative
// to zero or above, interpolated as in CrossingYear. A series that is not
// negative before it reaches zero has no break-even.
func BreakEvenYear(years []int, values []float64) (float64, bool) {
	n := min(len(years), len(values))
	for i := 1; i < n; i++ {
		if values[i-1] < 0 && values[i] >= 0 {
			return CrossingYear(years[i-1:i+1], values[i-1:i+1], 0)
		}
	}
	return 0, false
}
