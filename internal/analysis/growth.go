package analysis

import (
	"math"

	"plancharts/internal/model"
)

// Growth bundles the growth statistics of one series.
type Growth struct {
	// YoY is the year-over-year change in percent; index 0 is always null.
	YoY  []model.Value `json:"yoy"`
	CAGR model.Value   `json:"cagr"`
}

// ComputeGrowth returns YoY and CAGR for values.
func ComputeGrowth(values []float64) Growth {
	g := Growth{YoY: YoY(values), CAGR: model.Null}
	if c, ok := CAGR(values); ok {
		g.CAGR = model.V(c)
	}
	return g
}

// YoY computes (v[i]/v[i-1] - 1) * 100 for i > 0.
// The first element, and any element following a zero, is null.
func YoY(values []float64) []model.Value {
	out := make([]model.Value, len(values))
	for i := range values {
		if i == 0 || values[i-1] == 0 {
			out[i] = model.Null
			continue
		}
		out[i] = model.V((values[i]/values[i-1] - 1) * 100)
	}
	return out
}

// CAGR returns the compound annual growth rate in percent over
// n = len(values)-1 periods: (last/first)^(1/n) - 1.
//
// It is undefined (ok=false) for fewer than two points, a zero or negative
// first value, or a negative last/first ratio.
func CAGR(values []float64) (float64, bool) {
	n := len(values) - 1
	if n < 1 {
		return 0, false
	}
	first, last := values[0], values[n]
	if first <= 0 {
		return 0, false
	}
	ratio := last / first
	if ratio < 0 {
		return 0, false
	}
	return (math.Pow(ratio, 1/float64(n)) - 1) * 100, true
}

// AverageAbsoluteChange returns (last-first)/n, the mean annual change in
// the series' own units. Used where CAGR cannot take a root of a negative base.
func AverageAbsoluteChange(values []float64) (float64, bool) {
	n := len(values) - 1
	if n < 1 {
		return 0, false
	}
	return (values[n] - values[0]) / float64(n), true
}
